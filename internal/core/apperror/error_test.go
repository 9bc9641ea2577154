package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	base := NewBusinessRule("purchase_already_paid", "purchase is already paid")
	wrapped := fmt.Errorf("apply payment: %w", base)

	assert.True(t, IsBusinessRule(wrapped, ""))
	assert.True(t, IsBusinessRule(wrapped, "purchase_already_paid"))
	assert.False(t, IsBusinessRule(wrapped, "overpayment"))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("lines are required"), http.StatusBadRequest},
		{"not found", NewNotFound("product", "x"), http.StatusNotFound},
		{"stock", NewInsufficientStock("p", 2, 1), http.StatusUnprocessableEntity},
		{"conflict", NewConcurrentModification("lot", "x"), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.err))
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.Equal(t, "Internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
