package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/plantops/plantops/services/transfer/domain/models"
)

// MaterialRegistry reads shared material groups and their department-local
// records. The registry is maintained by inventory administration and is
// read-only to the workflow engine. Implementations must return live on-hand
// balances — the engine relies on current values when validating requests.
type MaterialRegistry interface {
	GetGroup(ctx context.Context, id uuid.UUID) (*models.SharedMaterialGroup, error)
	ListGroups(ctx context.Context) ([]*models.SharedMaterialGroup, error)
	GetMaterial(ctx context.Context, materialNumber string) (*models.LinkedMaterial, error)
}

// Ledger is the standalone on-hand adjustment primitive exposed to inventory
// administration collaborators (cycle counts, receipts). Adjustments are
// atomic with a floor of zero: a decrement that would go negative fails with
// *InsufficientStockError and leaves the balance untouched.
type Ledger interface {
	AdjustOnHand(ctx context.Context, materialNumber string, delta int) error
}
