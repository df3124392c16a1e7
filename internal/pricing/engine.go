package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/muadee/storefront-gateway/pkg/types"
)

// Line is the minimal pricing view of a cart or order line.
type Line struct {
	Quantity      int
	UnitPrice     decimal.Decimal
	OriginalPrice decimal.Decimal
}

// IsGift reports whether the line is a zero-price promotional gift.
func (l Line) IsGift() bool {
	return l.UnitPrice.IsZero()
}

// Quote is the derived pricing view of a cart or order. It is recomputed on
// every mutation and never persisted.
type Quote struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	ProductDiscount decimal.Decimal `json:"product_discount"`
	VoucherDiscount decimal.Decimal `json:"voucher_discount"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	Total           decimal.Decimal `json:"total"`
	GiftCount       int             `json:"gift_count"`
}

// Compute derives the quote for the given lines, optional voucher, and
// shipping fee. Gift lines contribute nothing to subtotal or discounts; the
// voucher only counts when its minimum-order condition is met by the
// subtotal; the total is clamped at zero.
func Compute(lines []Line, voucher *types.Voucher, shippingFee decimal.Decimal) Quote {
	quote := Quote{
		Subtotal:        decimal.Zero,
		ProductDiscount: decimal.Zero,
		VoucherDiscount: decimal.Zero,
		ShippingFee:     shippingFee,
	}

	for _, line := range lines {
		if line.IsGift() {
			quote.GiftCount++
			continue
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		quote.Subtotal = quote.Subtotal.Add(line.UnitPrice.Mul(qty))
		if line.OriginalPrice.GreaterThan(line.UnitPrice) {
			quote.ProductDiscount = quote.ProductDiscount.Add(line.OriginalPrice.Sub(line.UnitPrice).Mul(qty))
		}
	}

	if voucher != nil && voucher.MeetsMinimum(quote.Subtotal) {
		quote.VoucherDiscount = voucher.Value
	}

	quote.Total = types.ClampNonNegative(quote.Subtotal.Add(quote.ShippingFee).Sub(quote.VoucherDiscount))
	return quote
}

// FromCartItems projects cart lines into pricing lines.
func FromCartItems(items []types.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			OriginalPrice: item.OriginalPrice,
		})
	}
	return lines
}

// FromOrderItems projects order lines into pricing lines.
func FromOrderItems(items []types.OrderLineItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			OriginalPrice: item.OriginalPrice,
		})
	}
	return lines
}
