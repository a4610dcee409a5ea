package controllers

import (
	"testing"

	"github.com/urbanshop/urbanshop-backend/pkg/enums"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
)

func TestCheckoutRequestToInput(t *testing.T) {
	req := checkoutRequest{
		CustomerName:    " Maria Diaz ",
		CustomerPhone:   "+1 555 0100",
		CustomerAddress: "12 Main St",
		PaymentTag:      " whatsapp ",
	}
	input, err := req.toInput()
	if err != nil {
		t.Fatalf("to input: %v", err)
	}
	if input.CustomerName != "Maria Diaz" {
		t.Fatalf("expected trimmed name, got %q", input.CustomerName)
	}
	if input.PaymentTag != enums.PaymentTagWhatsApp {
		t.Fatalf("expected whatsapp tag, got %q", input.PaymentTag)
	}
}

func TestCheckoutRequestOmittedPaymentTag(t *testing.T) {
	req := checkoutRequest{
		CustomerName:    "Maria Diaz",
		CustomerPhone:   "+1 555 0100",
		CustomerAddress: "12 Main St",
	}
	input, err := req.toInput()
	if err != nil {
		t.Fatalf("to input: %v", err)
	}
	// blank stays blank here; the order service fills in the manual default
	if input.PaymentTag != "" {
		t.Fatalf("expected zero payment tag, got %q", input.PaymentTag)
	}
}

func TestCheckoutRequestRejectsUnknownPaymentTag(t *testing.T) {
	req := checkoutRequest{
		CustomerName:    "Maria Diaz",
		CustomerPhone:   "+1 555 0100",
		CustomerAddress: "12 Main St",
		PaymentTag:      "barter",
	}
	_, err := req.toInput()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
