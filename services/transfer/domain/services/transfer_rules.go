// Package services contains stateless domain services for the transfer
// bounded context. They enforce business rules that operate purely on domain
// types and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"

	transferdomain "github.com/plantops/plantops/services/transfer/domain"
	"github.com/plantops/plantops/services/transfer/domain/models"
)

// ResolveRequest validates a transfer request against the group it targets
// and resolves both endpoints. It enforces the rules that need registry
// state and therefore sit above the pure factory:
//
//   - the group must be active and link at least two departments
//   - both material numbers must belong to the group
//   - source and destination must sit in different departments
//   - quantity must not exceed the source's on-hand balance as read now
//
// The on-hand check here covers request creation only; completion re-checks
// against the then-current balance inside the ledger transaction.
func ResolveRequest(group *models.SharedMaterialGroup, fromMaterialNumber, toMaterialNumber string, quantity int) (from, to *models.LinkedMaterial, err error) {
	if err := group.EligibleForTransfer(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", transferdomain.ErrValidation, err)
	}

	from, ok := group.Material(fromMaterialNumber)
	if !ok {
		return nil, nil, fmt.Errorf("%w: material %s is not linked to group %s",
			transferdomain.ErrMaterialNotFound, fromMaterialNumber, group.Name)
	}
	to, ok = group.Material(toMaterialNumber)
	if !ok {
		return nil, nil, fmt.Errorf("%w: material %s is not linked to group %s",
			transferdomain.ErrMaterialNotFound, toMaterialNumber, group.Name)
	}

	if from.DepartmentCode == to.DepartmentCode {
		return nil, nil, fmt.Errorf("%w: source and destination are both in department %s",
			transferdomain.ErrValidation, from.DepartmentCode)
	}

	if quantity > from.OnHand {
		return nil, nil, &transferdomain.InsufficientStockError{
			MaterialNumber: from.MaterialNumber,
			OnHand:         from.OnHand,
			Requested:      quantity,
		}
	}

	return from, to, nil
}
