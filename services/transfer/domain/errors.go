package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the transfer domain. Use errors.Is() to check these.
var (
	// ErrTransferNotFound indicates the referenced transfer does not exist.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrGroupNotFound indicates the referenced shared material group does not exist.
	ErrGroupNotFound = errors.New("shared material group not found")

	// ErrMaterialNotFound indicates the referenced material record does not exist.
	ErrMaterialNotFound = errors.New("material not found")

	// ErrValidation indicates a malformed or semantically invalid transfer request.
	ErrValidation = errors.New("invalid transfer request")

	// ErrInvalidStateTransition indicates an attempted transition that is not
	// legal from the transfer's current status. Usually means the caller holds
	// stale state and should re-fetch.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInsufficientStock indicates the source material's on-hand balance is
	// below the requested quantity. Match the concrete *InsufficientStockError
	// with errors.As to read the current balance.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a failed on-hand check. It carries the
// balance observed at check time so callers can adjust the quantity or
// cancel the transfer. Unwraps to ErrInsufficientStock.
type InsufficientStockError struct {
	MaterialNumber string
	OnHand         int
	Requested      int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for material %s: have %d, need %d",
		e.MaterialNumber, e.OnHand, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
