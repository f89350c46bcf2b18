package domain

import "time"

// PurchaseStatusCompleted is the only status a ledger entry can have.
const PurchaseStatusCompleted = "completed"

// Purchase is an immutable ledger entry. UnitPrice is the catalog price at the
// moment of purchase and never follows later price edits.
type Purchase struct {
	ID         string
	UserID     string
	SweetID    string
	Quantity   int
	UnitPrice  float64
	TotalPrice float64
	Status     string
	CreatedAt  time.Time
}
