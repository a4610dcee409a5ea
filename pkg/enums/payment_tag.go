package enums

import "fmt"

// PaymentTag records which external payment hand-off a checkout used. The
// backend never processes payments; the tag plus an optional external
// transaction id is the whole integration surface.
type PaymentTag string

const (
	PaymentTagPaymentLink PaymentTag = "payment_link"
	PaymentTagWhatsApp    PaymentTag = "whatsapp"
	PaymentTagManual      PaymentTag = "manual"
)

var validPaymentTags = []PaymentTag{
	PaymentTagPaymentLink,
	PaymentTagWhatsApp,
	PaymentTagManual,
}

// String implements fmt.Stringer.
func (p PaymentTag) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentTag.
func (p PaymentTag) IsValid() bool {
	for _, candidate := range validPaymentTags {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentTag converts raw input into a PaymentTag.
func ParsePaymentTag(value string) (PaymentTag, error) {
	for _, candidate := range validPaymentTags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment tag %q", value)
}
