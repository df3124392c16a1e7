package enums

import "fmt"

// VoucherStatus tracks whether a discount voucher can currently be applied.
type VoucherStatus string

const (
	VoucherStatusActive   VoucherStatus = "active"
	VoucherStatusInactive VoucherStatus = "inactive"
)

var validVoucherStatuses = []VoucherStatus{
	VoucherStatusActive,
	VoucherStatusInactive,
}

// String implements fmt.Stringer.
func (v VoucherStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VoucherStatus.
func (v VoucherStatus) IsValid() bool {
	for _, candidate := range validVoucherStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVoucherStatus converts raw input into a VoucherStatus.
func ParseVoucherStatus(value string) (VoucherStatus, error) {
	for _, candidate := range validVoucherStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid voucher status %q", value)
}
