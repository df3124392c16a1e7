package middleware

import (
	"context"

	"github.com/muadee/storefront-gateway/pkg/auth"
)

type contextKey string

const ctxAuth contextKey = "auth_context"

// WithAuthContext injects the shopper identity into the request context.
func WithAuthContext(ctx context.Context, ac auth.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAuth, ac)
}

// AuthContextFrom extracts the shopper identity placed by the Auth middleware.
func AuthContextFrom(ctx context.Context) (auth.Context, bool) {
	if ctx == nil {
		return auth.Context{}, false
	}
	if v, ok := ctx.Value(ctxAuth).(auth.Context); ok {
		return v, true
	}
	return auth.Context{}, false
}
