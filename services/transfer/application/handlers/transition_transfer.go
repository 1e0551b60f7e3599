package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plantops/plantops/pkg/actor"
	"github.com/plantops/plantops/pkg/errhttp"
	"github.com/plantops/plantops/pkg/httpx"
	"github.com/plantops/plantops/services/transfer/domain/models"
	appsvcs "github.com/plantops/plantops/services/transfer/application/services"
)

// transitionFunc is one of the workflow engine's transition operations.
type transitionFunc func(ctx context.Context, id uuid.UUID, by string) (*models.Transfer, error)

// executeTransition resolves the actor and transfer ID from the request and
// applies the given transition, writing the updated transfer on success.
func executeTransition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	by, err := actor.FromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid transfer id"})
		return
	}

	transfer, err := fn(r.Context(), id, by)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toTransferResponse(transfer))
}

// ApproveTransferHandler handles POST /transfers/{id}/approve requests.
type ApproveTransferHandler struct {
	svc *appsvcs.Services
}

// NewApproveTransferHandler returns an ApproveTransferHandler backed by the given services.
func NewApproveTransferHandler(svc *appsvcs.Services) *ApproveTransferHandler {
	return &ApproveTransferHandler{svc: svc}
}

// Execute approves a pending transfer.
//
//	@Summary		Approve transfer
//	@Description	Moves a pending transfer to approved; inventory does not move until completion
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer ID"
//	@Success		200	{object}	TransferResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/transfers/{id}/approve [post]
func (h *ApproveTransferHandler) Execute(w http.ResponseWriter, r *http.Request) {
	executeTransition(w, r, h.svc.Transfer.Approve)
}

// RejectTransferHandler handles POST /transfers/{id}/reject requests.
type RejectTransferHandler struct {
	svc *appsvcs.Services
}

// NewRejectTransferHandler returns a RejectTransferHandler backed by the given services.
func NewRejectTransferHandler(svc *appsvcs.Services) *RejectTransferHandler {
	return &RejectTransferHandler{svc: svc}
}

// Execute rejects a pending transfer.
//
//	@Summary		Reject transfer
//	@Description	Moves a pending transfer to rejected; rejected is terminal
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer ID"
//	@Success		200	{object}	TransferResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/transfers/{id}/reject [post]
func (h *RejectTransferHandler) Execute(w http.ResponseWriter, r *http.Request) {
	executeTransition(w, r, h.svc.Transfer.Reject)
}

// CancelTransferHandler handles POST /transfers/{id}/cancel requests.
type CancelTransferHandler struct {
	svc *appsvcs.Services
}

// NewCancelTransferHandler returns a CancelTransferHandler backed by the given services.
func NewCancelTransferHandler(svc *appsvcs.Services) *CancelTransferHandler {
	return &CancelTransferHandler{svc: svc}
}

// Execute cancels a pending or approved transfer.
//
//	@Summary		Cancel transfer
//	@Description	Abandons a transfer that has not executed yet; allowed from pending and approved
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer ID"
//	@Success		200	{object}	TransferResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/transfers/{id}/cancel [post]
func (h *CancelTransferHandler) Execute(w http.ResponseWriter, r *http.Request) {
	executeTransition(w, r, h.svc.Transfer.Cancel)
}

// CompleteTransferHandler handles POST /transfers/{id}/complete requests.
type CompleteTransferHandler struct {
	svc *appsvcs.Services
}

// NewCompleteTransferHandler returns a CompleteTransferHandler backed by the given services.
func NewCompleteTransferHandler(svc *appsvcs.Services) *CompleteTransferHandler {
	return &CompleteTransferHandler{svc: svc}
}

// Execute completes an approved transfer, moving both on-hand balances.
//
//	@Summary		Complete transfer
//	@Description	Executes an approved transfer: decrements the source balance, increments the destination, atomically
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer ID"
//	@Success		200	{object}	TransferResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/transfers/{id}/complete [post]
func (h *CompleteTransferHandler) Execute(w http.ResponseWriter, r *http.Request) {
	executeTransition(w, r, h.svc.Transfer.Complete)
}
