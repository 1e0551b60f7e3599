// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/plantops/plantops/pkg/httpx"
	transferdomain "github.com/plantops/plantops/services/transfer/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error
// response. Uses errors.Is() so wrapped sentinels match. Insufficient-stock
// failures additionally carry the observed balance so clients can adjust
// the quantity or cancel. Unrecognized errors default to 500.
func WriteError(w http.ResponseWriter, err error) {
	var ise *transferdomain.InsufficientStockError
	if errors.As(err, &ise) {
		httpx.JSON(w, http.StatusConflict, map[string]any{
			"error":           ise.Error(),
			"material_number": ise.MaterialNumber,
			"on_hand":         ise.OnHand,
			"requested":       ise.Requested,
		})
		return
	}
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, transferdomain.ErrTransferNotFound),
		errors.Is(err, transferdomain.ErrGroupNotFound),
		errors.Is(err, transferdomain.ErrMaterialNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, transferdomain.ErrInvalidStateTransition):
		return http.StatusConflict // 409 — stale client state, re-fetch
	case errors.Is(err, transferdomain.ErrInsufficientStock):
		return http.StatusConflict // 409
	case errors.Is(err, transferdomain.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
