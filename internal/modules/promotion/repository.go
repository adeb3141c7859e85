package promotion

import (
	"context"
	"time"
)

// Repository defines the interface for promotion data storage.
type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	GetByID(ctx context.Context, id string) (*Promotion, error)
	List(ctx context.Context) ([]*Promotion, error)
	// ListActive returns promotions flagged active whose validity window
	// [start_date, end_date) contains now. The sale core consumes this
	// subset without re-checking dates.
	ListActive(ctx context.Context, now time.Time) ([]*Promotion, error)
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id string) error
}
