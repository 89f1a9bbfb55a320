package domain_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"skinvault/internal/domain"
	"skinvault/pkg/errcodes"
)

func TestAppError(t *testing.T) {
	rq := require.New(t)

	cause := errors.New("connection refused")

	testCases := []struct {
		name       string
		err        error
		kind       domain.Kind
		statusCode int
		message    string
	}{
		{
			name:       "Validation",
			err:        domain.Validation(errcodes.InvalidSkinName, "name is required"),
			kind:       domain.KindValidation,
			statusCode: http.StatusBadRequest,
			message:    "name is required",
		},
		{
			name:       "Not found",
			err:        domain.NotFound(errcodes.SkinNotFound, "skin not found"),
			kind:       domain.KindNotFound,
			statusCode: http.StatusNotFound,
			message:    "skin not found",
		},
		{
			name:       "Unauthenticated",
			err:        domain.Unauthenticated("sign in required"),
			kind:       domain.KindUnauthenticated,
			statusCode: http.StatusUnauthorized,
			message:    "sign in required",
		},
		{
			name:       "Upstream wrapped twice",
			err:        fmt.Errorf("pricing.Lookup: %w", domain.Upstream(cause, "pricing api unavailable")),
			kind:       domain.KindUpstream,
			statusCode: http.StatusBadGateway,
			message:    "pricing api unavailable",
		},
		{
			name:       "Internal",
			err:        domain.Internal(cause, "failed to list skins"),
			kind:       domain.KindInternal,
			statusCode: http.StatusInternalServerError,
			message:    "failed to list skins",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.True(domain.IsAppError(tc.err))
			rq.Equal(tc.kind, domain.KindOf(tc.err))
			rq.True(domain.IsKind(tc.err, tc.kind))

			var appErr *domain.AppError
			rq.ErrorAs(tc.err, &appErr)
			rq.Equal(tc.statusCode, appErr.StatusCode())
			rq.Equal(tc.message, appErr.Description())
		})
	}

	rq.ErrorIs(domain.Upstream(cause, "pricing api unavailable"), cause)
	rq.Equal(domain.KindInternal, domain.KindOf(cause))
}
