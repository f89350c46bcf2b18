package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// PurchaseRepository is the append-only purchase ledger.
type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
	// ListByUser returns the user's entries oldest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Purchase, error)
}
