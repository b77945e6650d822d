package invoice

import "fmt"

// State is a stage of one request's processing
type State string

const (
	StateReceived         State = "received"
	StateClassified       State = "classified"
	StateItemsResolved    State = "items_resolved"
	StateCustomerResolved State = "customer_resolved"
	StateCalculated       State = "calculated"
	StateAssembled        State = "assembled"
	StateEmitted          State = "emitted"
	StateRejected         State = "rejected"
)

var transitions = map[State][]State{
	StateReceived:         {StateClassified, StateRejected},
	StateClassified:       {StateItemsResolved, StateRejected},
	StateItemsResolved:    {StateCustomerResolved},
	StateCustomerResolved: {StateCalculated},
	StateCalculated:       {StateAssembled},
	StateAssembled:        {StateEmitted},
}

// IsTerminal reports whether no transition leaves the state
func (s State) IsTerminal() bool {
	return s == StateEmitted || s == StateRejected
}

// CanTransitionTo reports whether next directly follows s
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Trace records the states one request passed through
type Trace struct {
	states []State
}

// NewTrace starts a trace in StateReceived
func NewTrace() *Trace {
	return &Trace{states: []State{StateReceived}}
}

// Current returns the latest state
func (t *Trace) Current() State {
	return t.states[len(t.states)-1]
}

// Advance moves to next, failing on a transition the lifecycle does not allow
func (t *Trace) Advance(next State) error {
	cur := t.Current()
	if !cur.CanTransitionTo(next) {
		return fmt.Errorf("invalid state transition %s -> %s", cur, next)
	}
	t.states = append(t.states, next)
	return nil
}

// States returns a copy of the visited states
func (t *Trace) States() []State {
	out := make([]State, len(t.states))
	copy(out, t.states)
	return out
}
