package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muadee/storefront-gateway/api/responses"
	"github.com/muadee/storefront-gateway/api/validators"
	ordersvc "github.com/muadee/storefront-gateway/internal/orders"
	reordersvc "github.com/muadee/storefront-gateway/internal/reorder"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
)

// OrdersList returns the full order history, newest first.
func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.List(r.Context(), ac)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// OrderDetail returns one order with its derived stage and legal actions.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Detail(r.Context(), ac, chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// OrderStatusCounts tallies the history per canonical stage.
func OrderStatusCounts(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counts, err := svc.StatusCounts(r.Context(), ac)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counts)
	}
}

type cancelOrderRequest struct {
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	Code    string `json:"code" validate:"required"`
}

// OrderCancel cancels an order that is still awaiting confirmation.
func OrderCancel(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), ac, payload.OrderID, payload.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

type buyAgainRequest struct {
	Selection map[int64]int `json:"selection,omitempty"`
}

// OrderBuyAgain pushes a past order's purchasable lines back into the cart.
func OrderBuyAgain(svc reordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reorder service unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload buyAgainRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.BuyAgain(r.Context(), ac, chi.URLParam(r, "code"), payload.Selection)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
