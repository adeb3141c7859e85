package member

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no member matches a lookup.
var ErrNotFound = errors.New("member not found")

// Member is a loyalty-program customer.
type Member struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CardNo    string    `json:"card_no,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines the interface for member data storage.
type Repository interface {
	// Find looks a member up by phone number, card number, or exact name.
	Find(ctx context.Context, query string) (*Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
}
