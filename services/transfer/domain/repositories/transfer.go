package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/plantops/plantops/services/transfer/domain/models"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status     models.Status // exact status match
	Department string        // matches either the source or destination department
	Search     string        // case-insensitive substring over reference number, material numbers, requester
}

// TransferRepository is the persistence interface for the Transfer aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Transition and Complete are the serialization points for the workflow's
// concurrency guarantees: implementations must apply them as atomic
// compare-and-set operations so that of two racing transitions on the same
// transfer exactly one succeeds and the other fails with
// ErrInvalidStateTransition.
type TransferRepository interface {
	// Save persists a newly constructed pending transfer and publishes
	// TransferRequestedEvent in the same unit of work.
	Save(ctx context.Context, t *models.Transfer) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)

	// List returns transfers matching the filter, most recent request first.
	List(ctx context.Context, f ListFilter) ([]*models.Transfer, error)

	// Transition moves the transfer to the target status if, and only if, its
	// current status is one of allowedFrom. Records actor and instant on the
	// transfer (ApprovedBy/ApprovedAt for approvals) and publishes the
	// matching TransferTransitionedEvent atomically with the status change.
	// Fails with ErrTransferNotFound or ErrInvalidStateTransition; no state
	// is modified on failure.
	Transition(ctx context.Context, id uuid.UUID, allowedFrom []models.Status, to models.Status, actor string, at time.Time) (*models.Transfer, error)

	// Complete is the ledger mutation boundary. In a single unit of work it
	// decrements the source material's on-hand by the transfer quantity
	// (never below zero), increments the destination's, moves the transfer
	// from approved to completed, sets CompletedAt, and publishes
	// TransferTransitionedEvent. On *InsufficientStockError the transfer
	// remains approved and neither balance changes.
	Complete(ctx context.Context, id uuid.UUID, completedBy string, at time.Time) (*models.Transfer, error)
}
