package auth

import "github.com/golang-jwt/jwt/v5"

// Context is the explicit per-request identity handed to every upstream
// collaborator call. Nothing in the core reads ambient session state.
type Context struct {
	ShopperID     string
	SessionID     string
	UpstreamToken string
}

// Valid reports whether the context carries enough to call upstream.
func (c Context) Valid() bool {
	return c.UpstreamToken != "" && c.SessionID != ""
}

// AccessTokenPayload captures the data available when minting a gateway JWT.
type AccessTokenPayload struct {
	ShopperID     string
	UpstreamToken string
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to the shop UI. The
// upstream bearer token rides inside so the gateway can impersonate the
// shopper against the commerce backend.
type AccessTokenClaims struct {
	ShopperID     string `json:"shopper_id"`
	UpstreamToken string `json:"upstream_token"`
	jwt.RegisteredClaims
}
