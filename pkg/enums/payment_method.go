package enums

import "fmt"

// PaymentMethod identifies how a shopper chooses to pay. The constant values
// are the upstream wire codes, not display names.
type PaymentMethod string

const (
	PaymentMethodCOD       PaymentMethod = "1"
	PaymentMethodGatewayQR PaymentMethod = "3"
	PaymentMethodManual    PaymentMethod = "cp"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
	PaymentMethodGatewayQR,
	PaymentMethodManual,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresGateway reports whether the method ends in an external
// payment-gateway redirect instead of a local finalize.
func (p PaymentMethod) RequiresGateway() bool {
	return p == PaymentMethodGatewayQR
}

// ParsePaymentMethod converts an upstream wire code into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
