package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muadee/storefront-gateway/pkg/enums"
)

func TestVoucherIsActive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	voucher := Voucher{
		Status:    enums.VoucherStatusActive,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}
	if !voucher.IsActive(now) {
		t.Fatal("expected voucher inside its window to be active")
	}

	voucher.Status = enums.VoucherStatusInactive
	if voucher.IsActive(now) {
		t.Fatal("inactive status must fail")
	}

	voucher.Status = enums.VoucherStatusActive
	voucher.StartDate = now.Add(time.Minute)
	if voucher.IsActive(now) {
		t.Fatal("voucher before its start must fail")
	}

	voucher.StartDate = now.Add(-2 * time.Hour)
	voucher.EndDate = now.Add(-time.Hour)
	if voucher.IsActive(now) {
		t.Fatal("expired voucher must fail")
	}

	// Zero dates mean an unbounded window.
	open := Voucher{Status: enums.VoucherStatusActive}
	if !open.IsActive(now) {
		t.Fatal("voucher without dates must be active")
	}
}

func TestVoucherMeetsMinimum(t *testing.T) {
	t.Parallel()

	unconditional := Voucher{}
	if !unconditional.MeetsMinimum(decimal.Zero) {
		t.Fatal("nil minimum must always pass")
	}

	min := decimal.NewFromInt(500000)
	voucher := Voucher{MinOrderAmount: &min}

	if voucher.MeetsMinimum(decimal.NewFromInt(499999)) {
		t.Fatal("below minimum must fail")
	}
	if !voucher.MeetsMinimum(decimal.NewFromInt(500000)) {
		t.Fatal("exact minimum must pass")
	}
	if !voucher.MeetsMinimum(decimal.NewFromInt(600000)) {
		t.Fatal("above minimum must pass")
	}
}

func TestClampNonNegative(t *testing.T) {
	t.Parallel()

	if got := ClampNonNegative(decimal.NewFromInt(-5)); !got.IsZero() {
		t.Fatalf("clamp(-5) = %s, want 0", got)
	}
	if got := ClampNonNegative(decimal.NewFromInt(7)); !got.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("clamp(7) = %s, want 7", got)
	}
}

func TestLineGiftHeuristic(t *testing.T) {
	t.Parallel()

	gift := OrderLineItem{UnitPrice: decimal.Zero, OriginalPrice: decimal.NewFromInt(50000)}
	if !gift.IsGift() {
		t.Fatal("zero unit price must be a gift")
	}
	paid := CartItem{UnitPrice: decimal.NewFromInt(1000)}
	if paid.IsGift() {
		t.Fatal("priced line must not be a gift")
	}
}
