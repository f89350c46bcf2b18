package domain

import (
	"errors"
	"fmt"
)

var (
	// Catalog and inventory.
	ErrSweetNotFound    = errors.New("sweet not found")
	ErrSweetExists      = errors.New("sweet already exists")
	ErrSweetUnavailable = errors.New("sweet is not available for purchase")
	ErrInvalidQuantity  = errors.New("restock quantity must be positive")
	ErrInvalidPrice     = errors.New("price out of range")
	ErrInvalidInput     = errors.New("invalid input")
	// ErrInsufficientStock is matched by InsufficientStockError via errors.Is.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStockConflict is returned by a conditional stock decrement that
	// matched no row. Services translate it into an InsufficientStockError.
	ErrStockConflict = errors.New("stock changed concurrently")

	// Identity and access.
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInactiveUser       = errors.New("inactive user")
	ErrForbidden          = errors.New("not enough permissions")
)

// InsufficientStockError reports how many units were left when a purchase
// asked for more.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Only %d items available", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// SweetExistsError names the catalog entry that already uses a name.
type SweetExistsError struct {
	Name string
}

func (e *SweetExistsError) Error() string {
	return fmt.Sprintf("Sweet with name '%s' already exists", e.Name)
}

func (e *SweetExistsError) Is(target error) bool {
	return target == ErrSweetExists
}

// IsDomainError reports whether err carries one of the sentinels above, i.e.
// whether its message is meant for API callers.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var domainErrors = []error{
	ErrSweetNotFound, ErrSweetExists, ErrSweetUnavailable, ErrInvalidQuantity,
	ErrInvalidPrice, ErrInvalidInput, ErrInsufficientStock, ErrStockConflict,
	ErrUserNotFound, ErrUserExists, ErrInvalidCredentials, ErrInvalidToken,
	ErrUnauthenticated, ErrInactiveUser, ErrForbidden,
}
