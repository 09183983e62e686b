package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("validation failed", ValidationDetail{Field: "toDate", Message: "toDate must not be before fromDate"})

	ve, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "validation failed", ve.Error())
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "toDate", ve.Details[0].Field)

	_, ok = IsNotFoundError(err)
	assert.False(t, ok)
}

func TestIsHelpers_MatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("listing orders: %w", NewNotFoundError("order 9 not found"))

	nfe, ok := IsNotFoundError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "order 9 not found", nfe.Message)
}

func TestUnavailableError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewUnavailableError("request failed", cause)

	ue, ok := IsUnavailableError(err)
	require.True(t, ok)
	assert.ErrorIs(t, ue, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRejectionError(t *testing.T) {
	err := NewRejectionError(409, "order is not in the recycle bin")

	re, ok := IsRejectionError(err)
	require.True(t, ok)
	assert.Equal(t, 409, re.StatusCode)
	assert.Contains(t, err.Error(), "409")
}

func TestConflictAndInternal(t *testing.T) {
	_, ok := IsConflictError(NewConflictError("already restored"))
	assert.True(t, ok)

	ie := NewInternalError("query failed", fmt.Errorf("bad connection"))
	got, ok := IsInternalError(ie)
	require.True(t, ok)
	assert.Contains(t, got.Error(), "bad connection")
}
