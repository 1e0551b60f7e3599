package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantops/plantops/services/transfer/domain/models"
)

// TransferResponse is the wire representation of a transfer.
type TransferResponse struct {
	ID                 uuid.UUID  `json:"id"                   example:"123e4567-e89b-12d3-a456-426614174000"`
	ReferenceNumber    string     `json:"reference_number"     example:"IUT-20260115-103000-9F3A1C"`
	SharedGroupID      uuid.UUID  `json:"shared_group_id"      example:"550e8400-e29b-41d4-a716-446655440000"`
	FromDepartment     string     `json:"from_department"      example:"10"`
	ToDepartment       string     `json:"to_department"        example:"20"`
	FromMaterialNumber string     `json:"from_material_number" example:"MAT-10-0042"`
	ToMaterialNumber   string     `json:"to_material_number"   example:"MAT-20-0117"`
	Quantity           int        `json:"quantity"             example:"20"`
	UnitCost           string     `json:"unit_cost"            example:"12.00"`
	TotalValue         string     `json:"total_value"          example:"240.00"`
	Status             string     `json:"status"               example:"pending"`
	RequestedBy        string     `json:"requested_by"         example:"jsmith"`
	RequestedAt        time.Time  `json:"requested_at"         example:"2026-01-15T10:30:00Z"`
	ApprovedBy         string     `json:"approved_by,omitempty" example:"mjones"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Notes              string     `json:"notes,omitempty"`
} // @name TransferResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"transfer not found"`
} // @name ErrorResponse

func toTransferResponse(t *models.Transfer) TransferResponse {
	return TransferResponse{
		ID:                 t.ID,
		ReferenceNumber:    t.ReferenceNumber,
		SharedGroupID:      t.SharedGroupID,
		FromDepartment:     t.FromDepartment,
		ToDepartment:       t.ToDepartment,
		FromMaterialNumber: t.FromMaterialNumber,
		ToMaterialNumber:   t.ToMaterialNumber,
		Quantity:           t.Quantity,
		UnitCost:           t.UnitCost.StringFixed(2),
		TotalValue:         t.TotalValue.StringFixed(2),
		Status:             t.Status.String(),
		RequestedBy:        t.RequestedBy,
		RequestedAt:        t.RequestedAt,
		ApprovedBy:         t.ApprovedBy,
		ApprovedAt:         t.ApprovedAt,
		CompletedAt:        t.CompletedAt,
		Notes:              t.Notes,
	}
}

func toTransferResponses(transfers []*models.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toTransferResponse(t))
	}
	return out
}
