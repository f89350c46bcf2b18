package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// SweetFilter carries the query parameters for listing and searching sweets.
// Zero values mean "no filter".
type SweetFilter struct {
	Name          string   // partial, case-insensitive
	Category      string   // partial, case-insensitive
	MinPrice      *float64 // inclusive
	MaxPrice      *float64 // inclusive
	AvailableOnly bool
	Skip          int
	Limit         int // 0 = unlimited
}

// SweetRepository defines persistence operations for the catalog.
type SweetRepository interface {
	// Create fails with domain.ErrSweetExists when the name is taken.
	Create(ctx context.Context, s *domain.Sweet) error
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	// FindByIDForUpdate loads the sweet and, where the store supports it,
	// holds a row lock until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Sweet, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Sweet, error)
	List(ctx context.Context, filter SweetFilter) ([]*domain.Sweet, error)
	// Update persists every mutable field of s. Duplicate names yield
	// domain.ErrSweetExists, a missing row domain.ErrSweetNotFound.
	Update(ctx context.Context, s *domain.Sweet) error
	Delete(ctx context.Context, id string) error
	// Categories returns the distinct categories of available sweets.
	Categories(ctx context.Context) ([]string, error)
	// DecrementStock subtracts qty only if the sweet is available and holds
	// at least qty units; otherwise it returns domain.ErrStockConflict.
	DecrementStock(ctx context.Context, id string, qty int) error
	// IncrementStock adds qty and returns the updated sweet.
	IncrementStock(ctx context.Context, id string, qty int) (*domain.Sweet, error)
}
