package controllers

import (
	"net/http"

	"github.com/muadee/storefront-gateway/api/responses"
	"github.com/muadee/storefront-gateway/api/validators"
	paymentsvc "github.com/muadee/storefront-gateway/internal/payment"
	"github.com/muadee/storefront-gateway/pkg/enums"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
)

type runPaymentRequest struct {
	Action  string `json:"action" validate:"required,oneof=retry reorder"`
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	Code    string `json:"code" validate:"required"`
	Method  string `json:"method" validate:"required"`
}

// PaymentRun executes one payment sequence for an existing order: re-place
// or retry, assign the chosen method, set the pending statuses, then either
// hand back a gateway redirect or finalize locally.
func PaymentRun(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload runPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		outcome, err := svc.Run(r.Context(), ac, paymentsvc.Action(payload.Action), payload.OrderID, payload.Code, method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}
