package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// Repositories binds every repository to one *gorm.DB, which may be a
// transaction handle.
type Repositories struct {
	users     *UserRepository
	sweets    *SweetRepository
	purchases *PurchaseRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		users:     NewUserRepository(db),
		sweets:    NewSweetRepository(db),
		purchases: NewPurchaseRepository(db),
	}
}

func (r *Repositories) Users() ports.UserRepository         { return r.users }
func (r *Repositories) Sweets() ports.SweetRepository       { return r.sweets }
func (r *Repositories) Purchases() ports.PurchaseRepository { return r.purchases }

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn in a READ COMMITTED transaction. Row locks taken through
// FindByIDForUpdate serialize concurrent purchases of the same sweet.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	tx := m.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
