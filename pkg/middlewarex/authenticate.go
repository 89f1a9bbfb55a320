package middlewarex

import (
	"context"
	"net/http"
	"strings"

	"skinvault/pkg/contextx"
	"skinvault/pkg/httpx/reply"
	"skinvault/pkg/logx"
)

const bearerPrefix = "Bearer "

type tokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (contextx.UserID, error)
}

// Authenticate resolves the bearer token into a user id. Requests without an
// Authorization header pass through anonymously; a present but invalid token is
// rejected.
func Authenticate(verifier tokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

			userID, err := verifier.VerifyToken(ctx, token)
			if err != nil {
				reply.Error(ctx, w, err)
				return
			}

			ctx = contextx.WithUserID(ctx, userID)
			ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldUserID, userID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
