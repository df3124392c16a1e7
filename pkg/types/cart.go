package types

import "github.com/shopspring/decimal"

// CartItem is one line of the ephemeral session cart.
type CartItem struct {
	CartRowID     string          `json:"cart_row_id"`
	VariantID     int64           `json:"variant_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Snapshot      ProductSnapshot `json:"snapshot"`
}

// IsGift reports whether the cart line is a promotional gift.
func (c CartItem) IsGift() bool {
	return c.UnitPrice.IsZero()
}
