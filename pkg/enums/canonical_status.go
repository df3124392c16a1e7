package enums

import "fmt"

// CanonicalStatus is the closed order-lifecycle stage derived from the raw
// upstream status strings. It is never stored, always recomputed.
type CanonicalStatus string

const (
	CanonicalStatusPending    CanonicalStatus = "pending"
	CanonicalStatusProcessing CanonicalStatus = "processing"
	CanonicalStatusPacking    CanonicalStatus = "packing"
	CanonicalStatusShipping   CanonicalStatus = "shipping"
	CanonicalStatusDelivered  CanonicalStatus = "delivered"
	CanonicalStatusCompleted  CanonicalStatus = "completed"
	CanonicalStatusCancelled  CanonicalStatus = "cancelled"
)

var validCanonicalStatuses = []CanonicalStatus{
	CanonicalStatusPending,
	CanonicalStatusProcessing,
	CanonicalStatusPacking,
	CanonicalStatusShipping,
	CanonicalStatusDelivered,
	CanonicalStatusCompleted,
	CanonicalStatusCancelled,
}

// CanonicalStatuses returns every known status in lifecycle order.
func CanonicalStatuses() []CanonicalStatus {
	out := make([]CanonicalStatus, len(validCanonicalStatuses))
	copy(out, validCanonicalStatuses)
	return out
}

// String implements fmt.Stringer.
func (c CanonicalStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CanonicalStatus.
func (c CanonicalStatus) IsValid() bool {
	for _, candidate := range validCanonicalStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCanonicalStatus converts raw input into a CanonicalStatus.
func ParseCanonicalStatus(value string) (CanonicalStatus, error) {
	for _, candidate := range validCanonicalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid canonical status %q", value)
}
