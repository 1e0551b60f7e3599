package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	transferdomain "github.com/plantops/plantops/services/transfer/domain"
)

// Transfer is the inter-unit transfer aggregate: a request to move a quantity
// of a shared material from one department's on-hand balance to another's.
//
// UnitCost is a snapshot of the source material's cost at request time and
// never changes afterwards; TotalValue is computed once at construction.
// Terminal transfers (rejected, completed, cancelled) are never deleted —
// they remain as the audit record of the movement.
type Transfer struct {
	ID              uuid.UUID
	ReferenceNumber string

	SharedGroupID      uuid.UUID
	FromDepartment     string
	ToDepartment       string
	FromMaterialNumber string
	ToMaterialNumber   string

	Quantity   int
	UnitCost   decimal.Decimal
	TotalValue decimal.Decimal

	Status      Status
	RequestedBy string
	RequestedAt time.Time
	ApprovedBy  string
	ApprovedAt  *time.Time
	CompletedAt *time.Time
	Notes       string
}

// NewTransfer is the transfer factory: it builds an internally consistent
// pending transfer from the (group, source, destination, quantity, cost,
// requester) tuple. It performs no I/O and does not consult live balances —
// the workflow engine checks on-hand sufficiency before calling it.
func NewTransfer(
	groupID uuid.UUID,
	from, to LinkedMaterial,
	quantity int,
	unitCost decimal.Decimal,
	requestedBy, notes string,
) (*Transfer, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", transferdomain.ErrValidation, quantity)
	}
	if from.MaterialNumber == to.MaterialNumber {
		return nil, fmt.Errorf("%w: source and destination material must differ", transferdomain.ErrValidation)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost must not be negative, got %s", transferdomain.ErrValidation, unitCost)
	}
	if strings.TrimSpace(requestedBy) == "" {
		return nil, fmt.Errorf("%w: requester must be set", transferdomain.ErrValidation)
	}

	now := time.Now().UTC()
	return &Transfer{
		ID:                 uuid.New(),
		ReferenceNumber:    newReferenceNumber(now),
		SharedGroupID:      groupID,
		FromDepartment:     from.DepartmentCode,
		ToDepartment:       to.DepartmentCode,
		FromMaterialNumber: from.MaterialNumber,
		ToMaterialNumber:   to.MaterialNumber,
		Quantity:           quantity,
		UnitCost:           unitCost,
		TotalValue:         unitCost.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		Status:             StatusPending,
		RequestedBy:        requestedBy,
		RequestedAt:        now,
		Notes:              notes,
	}, nil
}

// newReferenceNumber builds a human-readable, globally unique reference:
// "IUT-" + request timestamp + a random suffix. The timestamp component keeps
// references monotonically distinguishable; the suffix breaks same-second ties.
func newReferenceNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("IUT-%s-%s", now.Format("20060102-150405"), strings.ToUpper(suffix))
}

// InvolvesDepartment reports whether code is the source or destination department.
func (t *Transfer) InvolvesDepartment(code string) bool {
	return t.FromDepartment == code || t.ToDepartment == code
}
