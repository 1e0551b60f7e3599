package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plantops/plantops/pkg/errhttp"
	"github.com/plantops/plantops/pkg/httpx"
	pkgvalidator "github.com/plantops/plantops/pkg/validator"
	appsvcs "github.com/plantops/plantops/services/transfer/application/services"
)

// AdjustMaterialRequest is the request body for POST /materials/{materialNumber}/adjust.
type AdjustMaterialRequest struct {
	Delta  int    `json:"delta"  validate:"required" example:"-3"`
	Reason string `json:"reason" validate:"required,max=500" example:"cycle count correction"`
} // @name AdjustMaterialRequest

// AdjustMaterialHandler handles manual on-hand corrections from inventory
// administration (cycle counts, receipts).
type AdjustMaterialHandler struct {
	svc *appsvcs.Services
}

// NewAdjustMaterialHandler returns an AdjustMaterialHandler backed by the given services.
func NewAdjustMaterialHandler(svc *appsvcs.Services) *AdjustMaterialHandler {
	return &AdjustMaterialHandler{svc: svc}
}

// Execute adjusts a material's on-hand balance by a signed delta.
//
//	@Summary		Adjust on-hand balance
//	@Description	Applies a signed correction to one department-local material; a decrement below zero fails
//	@Tags			materials
//	@Accept			json
//	@Produce		json
//	@Param			materialNumber	path	string					true	"Material number"
//	@Param			request			body	AdjustMaterialRequest	true	"Adjustment"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/materials/{materialNumber}/adjust [post]
func (h *AdjustMaterialHandler) Execute(w http.ResponseWriter, r *http.Request) {
	materialNumber := chi.URLParam(r, "materialNumber")

	req, ok := pkgvalidator.ValidateRequest[AdjustMaterialRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.Group.AdjustOnHand(r.Context(), materialNumber, req.Delta); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.NoContent(w)
}
