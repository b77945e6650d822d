package invoice

// AdvisoryCode identifies a default decision or hint surfaced to the caller
type AdvisoryCode string

const (
	AdvisoryCustomerDefaulted  AdvisoryCode = "CUSTOMER_DEFAULTED"
	AdvisoryCustomerUnresolved AdvisoryCode = "CUSTOMER_UNRESOLVED"
	AdvisoryItemsNeedInput     AdvisoryCode = "ITEMS_NEED_INPUT"
	AdvisoryItemSuggestion     AdvisoryCode = "ITEM_SUGGESTION"
	AdvisoryOverrideIgnored    AdvisoryCode = "OVERRIDE_IGNORED"
)

// Advisory is a non-fatal note attached to a generated invoice
type Advisory struct {
	Code    AdvisoryCode `json:"code"`
	Message string       `json:"message"`
	Item    string       `json:"item,omitempty"`
}
