package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/muadee/storefront-gateway/pkg/auth"
)

// AddressInput mirrors the upstream address payload.
type AddressInput struct {
	Recipient string
	Phone     string
	Line      string
	Ward      string
	District  string
	Province  string
	IsDefault bool
}

func (a AddressInput) toRequest() addressRequest {
	return addressRequest{
		Recipient: a.Recipient,
		Phone:     a.Phone,
		Line:      a.Line,
		Ward:      a.Ward,
		District:  a.District,
		Province:  a.Province,
		IsDefault: a.IsDefault,
	}
}

// SetDefaultAddress marks the address as the shopper's default.
func (c *Client) SetDefaultAddress(ctx context.Context, ac auth.Context, addressID int64) error {
	return c.do(ctx, ac, http.MethodPatch, "set_default_address", fmt.Sprintf("/addresses/default/%d", addressID), nil, nil)
}

// DeleteAddress removes an address from the shopper's book.
func (c *Client) DeleteAddress(ctx context.Context, ac auth.Context, addressID int64) error {
	return c.do(ctx, ac, http.MethodDelete, "delete_address", fmt.Sprintf("/addresses/%d", addressID), nil, nil)
}

// CreateAddress adds a new address to the shopper's book.
func (c *Client) CreateAddress(ctx context.Context, ac auth.Context, input AddressInput) error {
	return c.do(ctx, ac, http.MethodPost, "create_address", "/addresses", input.toRequest(), nil)
}

// UpdateAddress replaces an existing address.
func (c *Client) UpdateAddress(ctx context.Context, ac auth.Context, addressID int64, input AddressInput) error {
	return c.do(ctx, ac, http.MethodPut, "update_address", fmt.Sprintf("/addresses/%d", addressID), input.toRequest(), nil)
}
