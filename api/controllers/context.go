package controllers

import (
	"net/http"

	"github.com/muadee/storefront-gateway/api/middleware"
	"github.com/muadee/storefront-gateway/pkg/auth"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
)

func authContext(r *http.Request) (auth.Context, error) {
	ac, ok := middleware.AuthContextFrom(r.Context())
	if !ok || !ac.Valid() {
		return auth.Context{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session context")
	}
	return ac, nil
}
