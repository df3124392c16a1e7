package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/muadee/storefront-gateway/api/responses"
	"github.com/muadee/storefront-gateway/api/validators"
	"github.com/muadee/storefront-gateway/internal/backend"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
)

type addressRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Line      string `json:"line" validate:"required"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	Province  string `json:"province" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

func (a addressRequest) toInput() backend.AddressInput {
	return backend.AddressInput{
		Recipient: a.Recipient,
		Phone:     a.Phone,
		Line:      a.Line,
		Ward:      a.Ward,
		District:  a.District,
		Province:  a.Province,
		IsDefault: a.IsDefault,
	}
}

// AddressCreate adds an address to the shopper's book.
func AddressCreate(client *backend.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backend client unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.CreateAddress(r.Context(), ac, payload.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "created"})
	}
}

// AddressUpdate replaces an existing address.
func AddressUpdate(client *backend.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backend client unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := addressIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.UpdateAddress(r.Context(), ac, addressID, payload.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AddressDelete removes an address.
func AddressDelete(client *backend.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backend client unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := addressIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.DeleteAddress(r.Context(), ac, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AddressSetDefault marks the address as the shopper's default.
func AddressSetDefault(client *backend.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backend client unavailable"))
			return
		}
		ac, err := authContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := addressIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.SetDefaultAddress(r.Context(), ac, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "default_set"})
	}
}

func addressIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "addressID")
	addressID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || addressID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid address id")
	}
	return addressID, nil
}
