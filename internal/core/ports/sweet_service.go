package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// CreateSweetInput carries the fields of a new catalog item.
type CreateSweetInput struct {
	Name        string
	Category    string
	Price       float64
	Quantity    int
	Description string
	ImageURL    string
}

// UpdateSweetInput is a partial update; nil fields are left untouched.
type UpdateSweetInput struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int
	Description *string
	ImageURL    *string
	IsAvailable *bool
}

// SearchSweetsInput holds the optional, conjunctive search filters.
type SearchSweetsInput struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// SweetService defines the catalog use cases.
type SweetService interface {
	Create(ctx context.Context, in CreateSweetInput) (*domain.Sweet, error)
	// Get only exposes available sweets.
	Get(ctx context.Context, id string) (*domain.Sweet, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Sweet, error)
	Search(ctx context.Context, in SearchSweetsInput) ([]*domain.Sweet, error)
	Update(ctx context.Context, id string, in UpdateSweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}
