package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/plantops/plantops/pkg/actor"
	"github.com/plantops/plantops/pkg/errhttp"
	"github.com/plantops/plantops/pkg/httpx"
	pkgvalidator "github.com/plantops/plantops/pkg/validator"
	appsvcs "github.com/plantops/plantops/services/transfer/application/services"
)

// CreateTransferRequest is the request body for POST /transfers.
type CreateTransferRequest struct {
	SharedGroupID      uuid.UUID `json:"shared_group_id"      validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	FromMaterialNumber string    `json:"from_material_number" validate:"required" example:"MAT-10-0042"`
	ToMaterialNumber   string    `json:"to_material_number"   validate:"required,nefield=FromMaterialNumber" example:"MAT-20-0117"`
	Quantity           int       `json:"quantity"             validate:"required,gt=0" example:"20"`
	Notes              string    `json:"notes"                validate:"max=1000" example:"Line 2 bearing failure"`
} // @name CreateTransferRequest

// PostTransferHandler handles POST /transfers requests.
type PostTransferHandler struct {
	svc *appsvcs.Services
}

// NewPostTransferHandler returns a PostTransferHandler backed by the given services.
func NewPostTransferHandler(svc *appsvcs.Services) *PostTransferHandler {
	return &PostTransferHandler{svc: svc}
}

// Execute creates a new inter-unit transfer request.
//
//	@Summary		Request transfer
//	@Description	Creates a pending inter-unit transfer between two departments in a shared material group
//	@Tags			transfers
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTransferRequest	true	"Transfer request"
//	@Success		201		{object}	TransferResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/transfers [post]
func (h *PostTransferHandler) Execute(w http.ResponseWriter, r *http.Request) {
	requestedBy, err := actor.FromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateTransferRequest](w, r)
	if !ok {
		return
	}

	transfer, err := h.svc.Transfer.Create(r.Context(),
		req.SharedGroupID, req.FromMaterialNumber, req.ToMaterialNumber,
		req.Quantity, requestedBy, req.Notes)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toTransferResponse(transfer))
}
