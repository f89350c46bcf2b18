package ports

import "context"

// Repositories hands out repository instances bound to one transaction.
type Repositories interface {
	Users() UserRepository
	Sweets() SweetRepository
	Purchases() PurchaseRepository
}

// TxManager runs fn inside a single storage transaction. The context passed
// to fn carries the transaction and must be used for every call made through
// repos. Returning an error rolls back every write made inside fn.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
