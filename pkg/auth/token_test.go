package auth

import (
	"testing"
	"time"

	"github.com/muadee/storefront-gateway/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-gateway",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		ShopperID:     "shopper-1",
		UpstreamToken: "upstream-tok",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ShopperID != "shopper-1" {
		t.Fatalf("shopper id = %q", claims.ShopperID)
	}
	if claims.UpstreamToken != "upstream-tok" {
		t.Fatalf("upstream token = %q", claims.UpstreamToken)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintRequiresUpstreamToken(t *testing.T) {
	t.Parallel()

	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{ShopperID: "s"})
	if err == nil {
		t.Fatal("expected error without upstream token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UpstreamToken: "tok"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{UpstreamToken: "tok"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry failure")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	minting := testJWTConfig()
	minting.Issuer = "someone-else"
	token, err := MintAccessToken(minting, time.Now(), AccessTokenPayload{UpstreamToken: "tok"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig(), token); err == nil {
		t.Fatal("expected issuer failure")
	}
}

func TestContextValid(t *testing.T) {
	t.Parallel()

	if (Context{}).Valid() {
		t.Fatal("empty context must be invalid")
	}
	if (Context{UpstreamToken: "tok"}).Valid() {
		t.Fatal("context without session id must be invalid")
	}
	if !(Context{SessionID: "sess", UpstreamToken: "tok"}).Valid() {
		t.Fatal("context with session and token must be valid")
	}
}
