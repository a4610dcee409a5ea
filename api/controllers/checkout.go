package controllers

import (
	"net/http"
	"strings"

	"github.com/urbanshop/urbanshop-backend/api/responses"
	"github.com/urbanshop/urbanshop-backend/api/validators"
	ordersvc "github.com/urbanshop/urbanshop-backend/internal/orders"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName          string  `json:"customer_name" validate:"required"`
	CustomerPhone         string  `json:"customer_phone" validate:"required"`
	CustomerAddress       string  `json:"customer_address" validate:"required"`
	PaymentTag            string  `json:"payment_tag"`
	ExternalTransactionID *string `json:"external_transaction_id,omitempty"`
}

func (req checkoutRequest) toInput() (ordersvc.PlaceOrderInput, error) {
	// an omitted tag is left zero so the order service applies its default
	var tag enums.PaymentTag
	if raw := strings.TrimSpace(req.PaymentTag); raw != "" {
		parsed, err := enums.ParsePaymentTag(raw)
		if err != nil {
			return ordersvc.PlaceOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment tag")
		}
		tag = parsed
	}
	return ordersvc.PlaceOrderInput{
		CustomerName:          strings.TrimSpace(req.CustomerName),
		CustomerPhone:         strings.TrimSpace(req.CustomerPhone),
		CustomerAddress:       strings.TrimSpace(req.CustomerAddress),
		PaymentTag:            tag,
		ExternalTransactionID: req.ExternalTransactionID,
	}, nil
}

// Checkout converts the caller's cart into an order and clears the cart.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), ownerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
