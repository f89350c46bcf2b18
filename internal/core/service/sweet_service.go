package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

const (
	// DefaultMaxPrice is the upper price bound used when none is configured.
	DefaultMaxPrice = 1000.0

	minListLimit = 1
	maxListLimit = 100
)

// SweetService implements the catalog use cases.
type SweetService struct {
	repo     ports.SweetRepository
	cache    ports.CategoryCache // nil disables caching
	maxPrice float64
	log      zerolog.Logger
}

func NewSweetService(repo ports.SweetRepository, cache ports.CategoryCache, maxPrice float64, log zerolog.Logger) *SweetService {
	if maxPrice <= 0 {
		maxPrice = DefaultMaxPrice
	}
	return &SweetService{repo: repo, cache: cache, maxPrice: maxPrice, log: log}
}

// Create adds a new, available sweet to the catalog.
func (s *SweetService) Create(ctx context.Context, in ports.CreateSweetInput) (*domain.Sweet, error) {
	now := time.Now().UTC()
	sweet := &domain.Sweet{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       domain.RoundCents(in.Price),
		Quantity:    in.Quantity,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.validate(sweet); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sweet); err != nil {
		if errors.Is(err, domain.ErrSweetExists) {
			return nil, &domain.SweetExistsError{Name: sweet.Name}
		}
		return nil, wrapStore(err, "create sweet %q", sweet.Name)
	}
	s.invalidateCategories(ctx)

	s.log.Info().Str("sweet_id", sweet.ID).Str("name", sweet.Name).Msg("sweet created")
	return sweet, nil
}

// Get returns an available sweet. Unavailable sweets are reported as missing.
func (s *SweetService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	sweet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sweet.IsAvailable {
		return nil, domain.ErrSweetNotFound
	}
	return sweet, nil
}

// List pages through available sweets. limit is clamped to [1, 100].
func (s *SweetService) List(ctx context.Context, skip, limit int) ([]*domain.Sweet, error) {
	if skip < 0 {
		skip = 0
	}
	limit = min(max(limit, minListLimit), maxListLimit)

	return s.repo.List(ctx, ports.SweetFilter{AvailableOnly: true, Skip: skip, Limit: limit})
}

// Search applies the optional filters to available sweets.
func (s *SweetService) Search(ctx context.Context, in ports.SearchSweetsInput) ([]*domain.Sweet, error) {
	return s.repo.List(ctx, ports.SweetFilter{
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		MinPrice:      in.MinPrice,
		MaxPrice:      in.MaxPrice,
		AvailableOnly: true,
	})
}

// Update changes only the supplied fields, regardless of availability.
func (s *SweetService) Update(ctx context.Context, id string, in ports.UpdateSweetInput) (*domain.Sweet, error) {
	sweet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStore(err, "find sweet %s", id)
	}

	if in.Name != nil {
		sweet.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		sweet.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		sweet.Price = domain.RoundCents(*in.Price)
	}
	if in.Quantity != nil {
		sweet.Quantity = *in.Quantity
	}
	if in.Description != nil {
		sweet.Description = *in.Description
	}
	if in.ImageURL != nil {
		sweet.ImageURL = *in.ImageURL
	}
	if in.IsAvailable != nil {
		sweet.IsAvailable = *in.IsAvailable
	}
	if err := s.validate(sweet); err != nil {
		return nil, err
	}
	sweet.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, sweet); err != nil {
		if errors.Is(err, domain.ErrSweetExists) {
			return nil, &domain.SweetExistsError{Name: sweet.Name}
		}
		return nil, wrapStore(err, "update sweet %s", id)
	}
	s.invalidateCategories(ctx)
	return sweet, nil
}

// Delete removes the sweet. Ledger entries that reference it are kept.
func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStore(err, "delete sweet %s", id)
	}
	s.invalidateCategories(ctx)

	s.log.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

// Categories returns the sorted, de-duplicated categories of available sweets.
func (s *SweetService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("category cache read failed, falling back to store")
		} else if ok {
			return cached, nil
		}
	}

	raw, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, wrapStore(err, "list categories")
	}
	categories := slices.Clone(raw)
	slices.Sort(categories)
	categories = slices.Compact(categories)

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.log.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func (s *SweetService) validate(sweet *domain.Sweet) error {
	if sweet.Name == "" || sweet.Category == "" {
		return fmt.Errorf("%w: name and category are required", domain.ErrInvalidInput)
	}
	if sweet.Price <= 0 || sweet.Price > s.maxPrice {
		return fmt.Errorf("%w: must be greater than 0 and at most %.2f", domain.ErrInvalidPrice, s.maxPrice)
	}
	if sweet.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func (s *SweetService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("category cache invalidation failed")
	}
}
