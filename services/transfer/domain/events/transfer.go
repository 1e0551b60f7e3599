package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics, one per lifecycle action.
const (
	TopicTransferRequested = "transfer.requested"
	TopicTransferApproved  = "transfer.approved"
	TopicTransferRejected  = "transfer.rejected"
	TopicTransferCancelled = "transfer.cancelled"
	TopicTransferCompleted = "transfer.completed"
)

// TransferRequestedEvent is published when a new transfer is persisted in
// pending status. Carries the full request payload so consumers need no
// follow-up read.
type TransferRequestedEvent struct {
	EventID            uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version            int       `json:"version"`  // Schema version; increment on breaking changes
	TransferID         uuid.UUID `json:"transfer_id"`
	ReferenceNumber    string    `json:"reference_number"`
	SharedGroupID      uuid.UUID `json:"shared_group_id"`
	FromDepartment     string    `json:"from_department"`
	ToDepartment       string    `json:"to_department"`
	FromMaterialNumber string    `json:"from_material_number"`
	ToMaterialNumber   string    `json:"to_material_number"`
	Quantity           int       `json:"quantity"`
	TotalValue         string    `json:"total_value"` // decimal string, 2 dp
	RequestedBy        string    `json:"requested_by"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// TransferTransitionedEvent is published on every status transition after
// creation (approved, rejected, cancelled, completed). For completed events
// the ledger mutation has already been committed in the same transaction.
type TransferTransitionedEvent struct {
	EventID         uuid.UUID `json:"event_id"`
	Version         int       `json:"version"`
	TransferID      uuid.UUID `json:"transfer_id"`
	ReferenceNumber string    `json:"reference_number"`
	SharedGroupID   uuid.UUID `json:"shared_group_id"`
	FromStatus      string    `json:"from_status"`
	ToStatus        string    `json:"to_status"`
	Actor           string    `json:"actor"`
	OccurredAt      time.Time `json:"occurred_at"`
}
