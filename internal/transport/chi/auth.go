package chi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain"
	logpkg "github.com/kailas-cloud/homesearch/internal/logger"
	"github.com/kailas-cloud/homesearch/internal/session"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware resolves Bearer tokens to users and stores the user in
// the request context. A request without an Authorization header continues
// anonymously; the engine then denies access. Unknown tokens are rejected here.
func BearerAuthMiddleware(tokens map[string]domain.User) func(http.Handler) http.Handler {
	users := make(map[string]domain.User, len(tokens))
	for k, u := range tokens {
		if k != "" && u.ID != "" {
			users[k] = u
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			user, ok := users[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
				return
			}

			ctx := session.WithUser(r.Context(), user)
			ctx = logpkg.With(ctx, zap.String("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
