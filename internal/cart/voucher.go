package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// VoucherSelector guards the cart's single applied-voucher slot. Applying a
// second voucher replaces the first; only re-applying the same code is an
// error.
type VoucherSelector struct {
	applied *types.Voucher
	now     func() time.Time
}

// NewVoucherSelector builds a selector seeded with the currently applied
// voucher, if any.
func NewVoucherSelector(applied *types.Voucher) *VoucherSelector {
	return &VoucherSelector{applied: applied, now: time.Now}
}

// Apply validates the candidate against the current subtotal and installs
// it in the slot, replacing any previously applied voucher.
func (s *VoucherSelector) Apply(candidate types.Voucher, subtotal decimal.Decimal) error {
	if !candidate.IsActive(s.now()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "voucher is not active")
	}
	if !candidate.MeetsMinimum(subtotal) {
		return pkgerrors.New(pkgerrors.CodeValidation, "order does not meet the voucher minimum").
			WithDetails(map[string]any{
				"min_order_amount": candidate.MinOrderAmount,
				"subtotal":         subtotal,
			})
	}
	if s.applied != nil && strings.EqualFold(s.applied.Code, candidate.Code) {
		return pkgerrors.New(pkgerrors.CodeConflict, "voucher is already applied")
	}
	s.applied = &candidate
	return nil
}

// Remove clears the slot and returns the voucher that was applied, if any.
func (s *VoucherSelector) Remove() *types.Voucher {
	removed := s.applied
	s.applied = nil
	return removed
}

// Applied returns the voucher currently occupying the slot.
func (s *VoucherSelector) Applied() *types.Voucher {
	return s.applied
}
