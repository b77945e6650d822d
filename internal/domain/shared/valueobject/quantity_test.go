package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuantity(t *testing.T) {
	t.Run("accepts positive values", func(t *testing.T) {
		q, err := NewQuantity(decimal.RequireFromString("1.5"))
		require.NoError(t, err)
		assert.Equal(t, "1.5", q.String())
	})

	t.Run("rejects zero and negative", func(t *testing.T) {
		_, err := NewQuantityFromInt(0)
		assert.ErrorIs(t, err, ErrNonPositiveQuantity)
		_, err = NewQuantityFromInt(-3)
		assert.ErrorIs(t, err, ErrNonPositiveQuantity)
	})

	t.Run("default is one", func(t *testing.T) {
		assert.Equal(t, "1", One().String())
	})
}

func TestQuantityJSON(t *testing.T) {
	out, err := json.Marshal(MustQuantity(50))
	require.NoError(t, err)
	assert.Equal(t, "50", string(out))

	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`"3"`), &q))
	assert.Equal(t, "3", q.String())

	assert.Error(t, json.Unmarshal([]byte(`-1`), &q))
}
