package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plantops/plantops/pkg/errhttp"
	"github.com/plantops/plantops/pkg/httpx"
	appsvcs "github.com/plantops/plantops/services/transfer/application/services"
	"github.com/plantops/plantops/services/transfer/domain/models"
	"github.com/plantops/plantops/services/transfer/domain/repositories"
)

// ListTransfersResponse wraps the transfer list.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	Count     int                `json:"count" example:"2"`
} // @name ListTransfersResponse

// GetTransfersHandler handles GET /transfers requests.
type GetTransfersHandler struct {
	svc *appsvcs.Services
}

// NewGetTransfersHandler returns a GetTransfersHandler backed by the given services.
func NewGetTransfersHandler(svc *appsvcs.Services) *GetTransfersHandler {
	return &GetTransfersHandler{svc: svc}
}

// Execute lists transfers, most recent request first.
//
//	@Summary		List transfers
//	@Description	Lists transfers filtered by status, department involvement, and free-text search
//	@Tags			transfers
//	@Produce		json
//	@Param			status		query		string	false	"Filter by status"	Enums(pending, approved, rejected, completed, cancelled)
//	@Param			department	query		string	false	"Department code; matches source or destination"
//	@Param			search		query		string	false	"Substring over reference number, material numbers, requester"
//	@Success		200	{object}	ListTransfersResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/transfers [get]
func (h *GetTransfersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		filter.Status = status
	}
	filter.Department = r.URL.Query().Get("department")
	filter.Search = r.URL.Query().Get("search")

	transfers, err := h.svc.Transfer.List(r.Context(), filter)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ListTransfersResponse{
		Transfers: toTransferResponses(transfers),
		Count:     len(transfers),
	})
}

// GetTransferHandler handles GET /transfers/{id} requests.
type GetTransferHandler struct {
	svc *appsvcs.Services
}

// NewGetTransferHandler returns a GetTransferHandler backed by the given services.
func NewGetTransferHandler(svc *appsvcs.Services) *GetTransferHandler {
	return &GetTransferHandler{svc: svc}
}

// Execute returns a single transfer by ID.
//
//	@Summary		Get transfer
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer ID"
//	@Success		200	{object}	TransferResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/transfers/{id} [get]
func (h *GetTransferHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid transfer id"})
		return
	}

	transfer, err := h.svc.Transfer.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toTransferResponse(transfer))
}
