package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-portal/pkg/errors"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *errors.AppError
		status int
	}{
		{errors.NotFound("appointment", nil), http.StatusNotFound},
		{errors.BadRequest("invalid date", nil), http.StatusBadRequest},
		{errors.Unauthorized("invalid credentials", nil), http.StatusUnauthorized},
		{errors.Conflict("email already registered", nil), http.StatusConflict},
		{errors.Internal(stderrors.New("disk full")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Message)
	}
}

func TestAsAppError(t *testing.T) {
	inner := errors.NotFound("prescription", nil)
	wrapped := fmt.Errorf("loading records: %w", inner)

	appErr, ok := errors.AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	_, ok = errors.AsAppError(stderrors.New("plain"))
	assert.False(t, ok)
}
