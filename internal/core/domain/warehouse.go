// internal/core/domain/warehouse.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical or logical storage location
type Warehouse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsDefault bool      `json:"is_default"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks required fields
func (w *Warehouse) Validate() error {
	w.Code = strings.ToUpper(strings.TrimSpace(w.Code))
	if w.Code == "" {
		return invalidArg("warehouse code is required")
	}
	if strings.TrimSpace(w.Name) == "" {
		return invalidArg("warehouse name is required")
	}
	return nil
}

// PrepareForStorage assigns identity and timestamps
func (w *Warehouse) PrepareForStorage() {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
}

// Supplier is a vendor stock may be purchased from
type Supplier struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks required fields
func (s *Supplier) Validate() error {
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	if s.Code == "" {
		return invalidArg("supplier code is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return invalidArg("supplier name is required")
	}
	return nil
}

// PrepareForStorage assigns identity and timestamps
func (s *Supplier) PrepareForStorage() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
