package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// UnknownSweetName is shown for ledger entries whose sweet was deleted.
const UnknownSweetName = "Unknown"

// PurchaseReceipt is the read model of a ledger entry: the persisted entry
// joined with display fields at response time.
type PurchaseReceipt struct {
	Purchase  domain.Purchase
	SweetName string
	UserEmail string
}

// RestockResult reports a stock increment.
type RestockResult struct {
	SweetName   string
	OldQuantity int
	NewQuantity int
	Added       int
}

// InventoryService orchestrates stock mutations.
type InventoryService interface {
	Purchase(ctx context.Context, user *domain.User, sweetID string, quantity int) (*PurchaseReceipt, error)
	Restock(ctx context.Context, sweetID string, quantity int) (*RestockResult, error)
	ListPurchases(ctx context.Context, user *domain.User) ([]PurchaseReceipt, error)
}
