package domain

import (
	"math"
	"time"
)

// Sweet is a catalog item sold by the shop.
type Sweet struct {
	ID          string
	Name        string
	Category    string
	Price       float64
	Quantity    int
	Description string
	ImageURL    string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InStock reports whether the sweet can currently be bought.
func (s *Sweet) InStock() bool {
	return s.Quantity > 0 && s.IsAvailable
}

// RoundCents rounds a monetary amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
