package events

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const TypeOrderPlaced = "order.placed"

// OrderPlaced is emitted once an order and its lines are committed.
type OrderPlaced struct {
	Type      string          `json:"type"`
	OrderID   uint            `json:"order_id"`
	UserID    *uint           `json:"user_id,omitempty"`
	Email     string          `json:"email"`
	Total     decimal.Decimal `json:"total"`
	LineCount int             `json:"line_count"`
	PlacedAt  time.Time       `json:"placed_at"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
}

// Nop discards events.
type Nop struct{}

func (Nop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishOrderPlaced(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
