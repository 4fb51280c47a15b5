package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := &AppError{Kind: tt.kind, Message: "boom"}
			assert.Equal(t, tt.status, err.HTTPStatus())
		})
	}
}

func TestAsAppError_UnwrapsWrappedErrors(t *testing.T) {
	base := NewNotFoundError("Task Item", "abc")
	wrapped := fmt.Errorf("listing tasks: %w", base)

	got := AsAppError(wrapped)
	assert.NotNil(t, got)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.True(t, IsKind(wrapped, KindNotFound))
}

func TestAsAppError_NilForForeignErrors(t *testing.T) {
	assert.Nil(t, AsAppError(fmt.Errorf("plain error")))
	assert.False(t, IsKind(fmt.Errorf("plain error"), KindNotFound))
}

func TestAppError_IsClientFault(t *testing.T) {
	assert.True(t, NewValidationError("bad").IsClientFault())
	assert.True(t, NewConflictError("dupe").IsClientFault())
	assert.False(t, NewInternalError("boom").IsClientFault())
}
