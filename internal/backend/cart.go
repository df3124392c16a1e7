package backend

import (
	"context"
	"net/http"

	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// UpdateCartLine commits a coalesced quantity change for one cart line and
// returns the upstream's view of the updated line.
func (c *Client) UpdateCartLine(ctx context.Context, ac auth.Context, variantID int64, quantity int) (*types.CartItem, error) {
	req := cartLineRequest{VariantID: variantID, Quantity: quantity}
	var wire cartLineDetailWire
	if err := c.do(ctx, ac, http.MethodPatch, "update_cart_line", "/cart/items", req, &wire); err != nil {
		return nil, err
	}
	item := wire.Data.toCartItem()
	return &item, nil
}

// RemoveCartLine deletes one cart line upstream.
func (c *Client) RemoveCartLine(ctx context.Context, ac auth.Context, variantID int64) error {
	req := cartLineRequest{VariantID: variantID, Quantity: 0}
	return c.do(ctx, ac, http.MethodDelete, "remove_cart_line", "/cart/items", req, nil)
}

// ListVouchers pulls the currently advertised vouchers from the home
// collaborator. Voucher application itself is a local computation.
func (c *Client) ListVouchers(ctx context.Context, ac auth.Context) ([]types.Voucher, error) {
	var wire homeWire
	if err := c.do(ctx, ac, http.MethodGet, "list_vouchers", "/home", nil, &wire); err != nil {
		return nil, err
	}
	vouchers := make([]types.Voucher, 0, len(wire.Data.Vouchers))
	for _, entry := range wire.Data.Vouchers {
		vouchers = append(vouchers, entry.toVoucher())
	}
	return vouchers, nil
}
