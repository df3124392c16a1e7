package controllers

import (
	"net/http"
	"time"

	"github.com/muadee/storefront-gateway/api/responses"
	"github.com/muadee/storefront-gateway/api/validators"
	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/config"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
)

type exchangeSessionRequest struct {
	ShopperID     string `json:"shopper_id"`
	UpstreamToken string `json:"upstream_token" validate:"required"`
}

type exchangeSessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// SessionExchange trades an upstream bearer token for a gateway token. The
// shop UI signs in against the commerce backend directly and then hands the
// resulting token here so every later call can ride through the gateway.
func SessionExchange(cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload exchangeSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
			ShopperID:     payload.ShopperID,
			UpstreamToken: payload.UpstreamToken,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token"))
			return
		}

		responses.WriteSuccess(w, exchangeSessionResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   cfg.ExpirationMinutes * 60,
		})
	}
}
