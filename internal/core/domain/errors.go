// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error categories returned by the stock ledger. Callers match them with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrWouldGoNegative      = errors.New("stock would go negative")
	ErrInvalidState         = errors.New("invalid state")
	ErrConcurrencyConflict  = errors.New("concurrency conflict")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

// NotFoundError reports an unknown entity
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFound builds a NotFoundError for the given entity kind and id
func NewNotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: fmt.Sprint(id)}
}

// InsufficientStockError is returned when an issue asks for more than is on hand
type InsufficientStockError struct {
	ItemID    uuid.UUID       `json:"item_id"`
	SKU       string          `json:"sku"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s (%s): requested %s, available %s",
		e.ItemID, e.SKU, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// WouldGoNegativeError is returned when cancelling or correcting history
// would drive the item's stock below zero
type WouldGoNegativeError struct {
	ItemID    uuid.UUID       `json:"item_id"`
	EntryID   uuid.UUID       `json:"entry_id,omitempty"`
	Current   decimal.Decimal `json:"current"`
	Resulting decimal.Decimal `json:"resulting"`
}

func (e *WouldGoNegativeError) Error() string {
	if e.EntryID != uuid.Nil {
		return fmt.Sprintf("stock for item %s would go negative at transaction %s: %s -> %s",
			e.ItemID, e.EntryID, e.Current.String(), e.Resulting.String())
	}
	return fmt.Sprintf("stock for item %s would go negative: %s -> %s",
		e.ItemID, e.Current.String(), e.Resulting.String())
}

func (e *WouldGoNegativeError) Is(target error) bool { return target == ErrWouldGoNegative }

// InvalidStateError reports an operation that is not allowed in the entity's current state
type InvalidStateError struct {
	Entity string
	ID     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Reason)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// NewInvalidState builds an InvalidStateError
func NewInvalidState(entity string, id any, reason string) error {
	return &InvalidStateError{Entity: entity, ID: fmt.Sprint(id), Reason: reason}
}

// invalidArg wraps ErrInvalidArgument with a field level message
func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// InvalidArgument is the exported form of invalidArg for use outside the domain package
func InvalidArgument(format string, args ...any) error {
	return invalidArg(format, args...)
}
