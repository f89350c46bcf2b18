package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// MaxPurchaseQuantity caps the units a single purchase may request.
const MaxPurchaseQuantity = 100

// InventoryService runs purchases and restocks against the catalog and the
// purchase ledger.
type InventoryService struct {
	tx        ports.TxManager
	sweets    ports.SweetRepository
	purchases ports.PurchaseRepository
	log       zerolog.Logger
}

func NewInventoryService(
	tx ports.TxManager,
	sweets ports.SweetRepository,
	purchases ports.PurchaseRepository,
	log zerolog.Logger,
) *InventoryService {
	return &InventoryService{tx: tx, sweets: sweets, purchases: purchases, log: log}
}

// Purchase decrements stock and appends a ledger entry in one transaction.
// The unit price is captured from the catalog at this moment.
func (s *InventoryService) Purchase(ctx context.Context, user *domain.User, sweetID string, quantity int) (*ports.PurchaseReceipt, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if quantity < 1 || quantity > MaxPurchaseQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidInput, MaxPurchaseQuantity)
	}

	var receipt *ports.PurchaseReceipt
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		sweet, err := repos.Sweets().FindByIDForUpdate(ctx, sweetID)
		if err != nil {
			return err
		}
		if !sweet.IsAvailable {
			return domain.ErrSweetUnavailable
		}
		if quantity > sweet.Quantity {
			return &domain.InsufficientStockError{Available: sweet.Quantity}
		}

		if err := repos.Sweets().DecrementStock(ctx, sweet.ID, quantity); err != nil {
			if errors.Is(err, domain.ErrStockConflict) {
				return lostStockRace(ctx, repos.Sweets(), sweet.ID)
			}
			return wrapStore(err, "decrement stock")
		}

		purchase := &domain.Purchase{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			SweetID:    sweet.ID,
			Quantity:   quantity,
			UnitPrice:  sweet.Price,
			TotalPrice: domain.RoundCents(sweet.Price * float64(quantity)),
			Status:     domain.PurchaseStatusCompleted,
			CreatedAt:  time.Now().UTC(),
		}
		if err := repos.Purchases().Create(ctx, purchase); err != nil {
			return wrapStore(err, "append purchase")
		}

		receipt = &ports.PurchaseReceipt{
			Purchase:  *purchase,
			SweetName: sweet.Name,
			UserEmail: user.Email,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("purchase_id", receipt.Purchase.ID).
		Str("sweet_id", sweetID).
		Str("user_id", user.ID).
		Int("quantity", quantity).
		Float64("total_price", receipt.Purchase.TotalPrice).
		Msg("purchase completed")

	return receipt, nil
}

// lostStockRace reports the stock left after a concurrent writer won the
// conditional decrement.
func lostStockRace(ctx context.Context, sweets ports.SweetRepository, id string) error {
	current, err := sweets.FindByID(ctx, id)
	if err != nil {
		return wrapStore(err, "reload sweet after stock conflict")
	}
	if !current.IsAvailable {
		return domain.ErrSweetUnavailable
	}
	return &domain.InsufficientStockError{Available: current.Quantity}
}

// Restock adds units to a sweet. Restocks are not recorded in the ledger.
func (s *InventoryService) Restock(ctx context.Context, sweetID string, quantity int) (*ports.RestockResult, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sweet, err := s.sweets.IncrementStock(ctx, sweetID, quantity)
	if err != nil {
		return nil, wrapStore(err, "restock sweet %s", sweetID)
	}

	s.log.Info().Str("sweet_id", sweetID).Int("added", quantity).Int("quantity", sweet.Quantity).Msg("sweet restocked")

	return &ports.RestockResult{
		SweetName:   sweet.Name,
		OldQuantity: sweet.Quantity - quantity,
		NewQuantity: sweet.Quantity,
		Added:       quantity,
	}, nil
}

// ListPurchases returns the caller's ledger entries joined with the current
// sweet names. Entries whose sweet was deleted show UnknownSweetName.
func (s *InventoryService) ListPurchases(ctx context.Context, user *domain.User) ([]ports.PurchaseReceipt, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	entries, err := s.purchases.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, wrapStore(err, "list purchases")
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, p := range entries {
		if _, ok := seen[p.SweetID]; ok {
			continue
		}
		seen[p.SweetID] = struct{}{}
		ids = append(ids, p.SweetID)
	}

	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		sweets, err := s.sweets.FindByIDs(ctx, ids)
		if err != nil {
			return nil, wrapStore(err, "load purchased sweets")
		}
		for _, sw := range sweets {
			names[sw.ID] = sw.Name
		}
	}

	receipts := make([]ports.PurchaseReceipt, 0, len(entries))
	for _, p := range entries {
		name, ok := names[p.SweetID]
		if !ok {
			name = ports.UnknownSweetName
		}
		receipts = append(receipts, ports.PurchaseReceipt{
			Purchase:  *p,
			SweetName: name,
			UserEmail: user.Email,
		})
	}
	return receipts, nil
}
