package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plantops/plantops/services/transfer/domain/models"
	"github.com/plantops/plantops/services/transfer/domain/repositories"
	domainsvcs "github.com/plantops/plantops/services/transfer/domain/services"
)

// TransferService is the workflow engine for inter-unit transfers. It owns
// the lifecycle pending -> approved -> completed (with rejected and cancelled
// as the other exits) and delegates the atomicity of each transition to the
// repository so that racing actors resolve to exactly one winner.
//
// Event publishing is handled by the repository layer (outbox pattern).
type TransferService struct {
	repo     repositories.TransferRepository
	registry repositories.MaterialRegistry
}

// NewTransferService returns a TransferService wired with the given
// repository and material registry.
func NewTransferService(repo repositories.TransferRepository, registry repositories.MaterialRegistry) *TransferService {
	return &TransferService{repo: repo, registry: registry}
}

// Create validates a transfer request against the live group state and
// persists it in pending status. The unit cost is snapshotted from the
// source material at this moment and never re-read. The repository
// publishes TransferRequestedEvent.
func (s *TransferService) Create(
	ctx context.Context,
	groupID uuid.UUID,
	fromMaterialNumber, toMaterialNumber string,
	quantity int,
	requestedBy, notes string,
) (*models.Transfer, error) {
	group, err := s.registry.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	from, to, err := domainsvcs.ResolveRequest(group, fromMaterialNumber, toMaterialNumber, quantity)
	if err != nil {
		return nil, err
	}

	transfer, err := models.NewTransfer(group.ID, *from, *to, quantity, from.UnitCost, requestedBy, notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, transfer); err != nil {
		return nil, fmt.Errorf("save transfer: %w", err)
	}
	return transfer, nil
}

// Approve moves a pending transfer to approved, recording the approver and
// the approval instant. No inventory moves yet.
func (s *TransferService) Approve(ctx context.Context, id uuid.UUID, approvedBy string) (*models.Transfer, error) {
	return s.repo.Transition(ctx, id,
		[]models.Status{models.StatusPending},
		models.StatusApproved, approvedBy, time.Now().UTC())
}

// Reject moves a pending transfer to rejected. Rejected is terminal; the
// record remains for audit.
func (s *TransferService) Reject(ctx context.Context, id uuid.UUID, rejectedBy string) (*models.Transfer, error) {
	return s.repo.Transition(ctx, id,
		[]models.Status{models.StatusPending},
		models.StatusRejected, rejectedBy, time.Now().UTC())
}

// Cancel abandons a transfer that has not yet executed. Allowed from pending
// and from approved; once completed the movement is fact and cannot be
// cancelled.
func (s *TransferService) Cancel(ctx context.Context, id uuid.UUID, cancelledBy string) (*models.Transfer, error) {
	return s.repo.Transition(ctx, id,
		[]models.Status{models.StatusPending, models.StatusApproved},
		models.StatusCancelled, cancelledBy, time.Now().UTC())
}

// Complete executes an approved transfer: both on-hand balances move and the
// transfer reaches completed, all in one atomic unit of work inside the
// repository. If the source balance has dropped below the transfer quantity
// since approval, the call fails with *InsufficientStockError and the
// transfer stays approved.
func (s *TransferService) Complete(ctx context.Context, id uuid.UUID, completedBy string) (*models.Transfer, error) {
	return s.repo.Complete(ctx, id, completedBy, time.Now().UTC())
}

// Get returns a transfer by ID.
func (s *TransferService) Get(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns transfers matching the filter, most recent request first.
func (s *TransferService) List(ctx context.Context, f repositories.ListFilter) ([]*models.Transfer, error) {
	transfers, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}
