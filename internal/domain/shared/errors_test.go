package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("message is the error text", func(t *testing.T) {
		err := NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		assert.Equal(t, "Quantity must be positive", err.Error())
		assert.Equal(t, "INVALID_QUANTITY", err.Code)
	})

	t.Run("matches sentinel by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load company acme: %w", NewDomainError("CATALOG_UNAVAILABLE", "redis down"))
		assert.True(t, errors.Is(err, ErrCatalogUnavailable))
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("errors.As extracts the domain error", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", ErrNotFound)
		var de *DomainError
		assert.True(t, errors.As(err, &de))
		assert.Equal(t, "NOT_FOUND", de.Code)
	})
}
