package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/muadee/storefront-gateway/pkg/enums"
)

// Voucher is a fixed-amount discount code with an optional minimum-order
// eligibility condition and a validity window.
type Voucher struct {
	Code           string              `json:"code"`
	Value          decimal.Decimal     `json:"value"`
	Description    string              `json:"description"`
	MinOrderAmount *decimal.Decimal    `json:"min_order_amount,omitempty"`
	Status         enums.VoucherStatus `json:"status"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
}

// IsActive reports whether the voucher can be applied at the given moment.
func (v Voucher) IsActive(now time.Time) bool {
	if v.Status != enums.VoucherStatusActive {
		return false
	}
	if !v.StartDate.IsZero() && now.Before(v.StartDate) {
		return false
	}
	if !v.EndDate.IsZero() && now.After(v.EndDate) {
		return false
	}
	return true
}

// MeetsMinimum reports whether the subtotal satisfies the voucher's
// minimum-order condition. A nil condition always passes.
func (v Voucher) MeetsMinimum(subtotal decimal.Decimal) bool {
	if v.MinOrderAmount == nil {
		return true
	}
	return subtotal.GreaterThanOrEqual(*v.MinOrderAmount)
}
