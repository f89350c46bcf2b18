package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type SweetRepository struct {
	db *gorm.DB
}

func NewSweetRepository(db *gorm.DB) *SweetRepository {
	return &SweetRepository{db: db}
}

func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) error {
	if err := r.db.WithContext(ctx).Create(fromSweetDomain(s)).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domain.ErrSweetExists
		}
		if isCheckConstraintViolation(err) {
			return domain.ErrInvalidInput
		}
		return errors.Wrap(err, "failed to create sweet")
	}
	return nil
}

func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate takes a row lock held until the transaction ends.
func (r *SweetRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Sweet, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *SweetRepository) first(q *gorm.DB, id string) (*domain.Sweet, error) {
	if !validID(id) {
		return nil, domain.ErrSweetNotFound
	}
	var m sweetModel
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, errors.Wrap(err, "failed to find sweet")
	}
	return m.toDomain(), nil
}

func (r *SweetRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Sweet, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	var models []sweetModel
	if err := r.db.WithContext(ctx).Where("id IN ?", valid).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find sweets by ids")
	}
	return toSweets(models), nil
}

func (r *SweetRepository) List(ctx context.Context, f ports.SweetFilter) ([]*domain.Sweet, error) {
	q := r.db.WithContext(ctx).Model(&sweetModel{})
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if f.Name != "" {
		q = q.Where("name ILIKE ?", "%"+likeEscaper.Replace(f.Name)+"%")
	}
	if f.Category != "" {
		q = q.Where("category ILIKE ?", "%"+likeEscaper.Replace(f.Category)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	q = q.Order("created_at ASC, id ASC").Offset(f.Skip)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var models []sweetModel
	if err := q.Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list sweets")
	}
	return toSweets(models), nil
}

func (r *SweetRepository) Update(ctx context.Context, s *domain.Sweet) error {
	if !validID(s.ID) {
		return domain.ErrSweetNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&sweetModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"name":         s.Name,
			"category":     s.Category,
			"price":        s.Price,
			"quantity":     s.Quantity,
			"description":  s.Description,
			"image_url":    s.ImageURL,
			"is_available": s.IsAvailable,
			"updated_at":   s.UpdatedAt,
		})
	if res.Error != nil {
		if isUniqueConstraintViolation(res.Error) {
			return domain.ErrSweetExists
		}
		return errors.Wrap(res.Error, "failed to update sweet")
	}
	if res.RowsAffected == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrSweetNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&sweetModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete sweet")
	}
	if res.RowsAffected == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

func (r *SweetRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&sweetModel{}).
		Where("is_available = ?", true).
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

// DecrementStock is a conditional update; zero affected rows means the
// sweet vanished, became unavailable or ran short.
func (r *SweetRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	if !validID(id) {
		return domain.ErrStockConflict
	}
	res := r.db.WithContext(ctx).
		Model(&sweetModel{}).
		Where("id = ? AND is_available = ? AND quantity >= ?", id, true, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to decrement stock")
	}
	if res.RowsAffected == 0 {
		return domain.ErrStockConflict
	}
	return nil
}

func (r *SweetRepository) IncrementStock(ctx context.Context, id string, qty int) (*domain.Sweet, error) {
	if !validID(id) {
		return nil, domain.ErrSweetNotFound
	}
	var m sweetModel
	res := r.db.WithContext(ctx).
		Model(&m).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "failed to increment stock")
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrSweetNotFound
	}
	return m.toDomain(), nil
}

func toSweets(models []sweetModel) []*domain.Sweet {
	out := make([]*domain.Sweet, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out
}
