package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSnapshot captures the presentational fields frozen onto a line at
// the time it was ordered or added to the cart.
type ProductSnapshot struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	VariantLabel string `json:"variant_label"`
}

// OrderLineItem is one ordered line. A zero unit price marks a gift line,
// which is excluded from pricing totals and from reorder actions.
type OrderLineItem struct {
	VariantID     int64           `json:"variant_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Snapshot      ProductSnapshot `json:"snapshot"`
}

// IsGift reports whether the line is a promotional gift.
func (l OrderLineItem) IsGift() bool {
	return l.UnitPrice.IsZero()
}

// Order is the upstream order as seen by the gateway. The raw status
// strings are upstream truth; the canonical stage is always derived from
// them, never stored here.
type Order struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Items           []OrderLineItem `json:"items"`
	OrderStatus     string          `json:"order_status"`
	PaymentStatus   string          `json:"payment_status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	VoucherDiscount decimal.Decimal `json:"voucher_discount"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
}
