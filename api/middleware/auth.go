package middleware

import (
	"net/http"
	"strings"

	"github.com/muadee/storefront-gateway/api/responses"
	pkgAuth "github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/config"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
)

// Auth validates the gateway bearer token and seeds the request context
// with the explicit shopper identity every upstream call requires.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			ac := pkgAuth.Context{
				ShopperID:     claims.ShopperID,
				SessionID:     claims.ID,
				UpstreamToken: claims.UpstreamToken,
			}
			if !ac.Valid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries no upstream session"))
				return
			}

			ctx := WithAuthContext(r.Context(), ac)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"shopper_id": ac.ShopperID,
					"session_id": ac.SessionID,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
