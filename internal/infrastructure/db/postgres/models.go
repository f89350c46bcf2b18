package postgres

import (
	"time"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

type userModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:hashed_password;not null"`
	FullName     string `gorm:"type:varchar(255)"`
	IsAdmin      bool   `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func fromUserDomain(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		IsAdmin:      m.IsAdmin,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type sweetModel struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Category    string  `gorm:"type:varchar(50);index;not null"`
	Price       float64 `gorm:"type:numeric(10,2);not null;check:price > 0"`
	Quantity    int     `gorm:"not null;check:quantity >= 0"`
	Description string  `gorm:"type:text"`
	ImageURL    string  `gorm:"type:text"`
	IsAvailable bool    `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (sweetModel) TableName() string { return "sweets" }

func fromSweetDomain(s *domain.Sweet) *sweetModel {
	return &sweetModel{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		IsAvailable: s.IsAvailable,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *sweetModel) toDomain() *domain.Sweet {
	return &domain.Sweet{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Price:       m.Price,
		Quantity:    m.Quantity,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		IsAvailable: m.IsAvailable,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// purchaseModel has no foreign keys: entries outlive deleted sweets.
type purchaseModel struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_purchases_user_created,priority:1"`
	SweetID    string    `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null;check:quantity > 0"`
	UnitPrice  float64   `gorm:"type:numeric(10,2);not null"`
	TotalPrice float64   `gorm:"type:numeric(12,2);not null"`
	Status     string    `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time `gorm:"index:idx_purchases_user_created,priority:2"`
}

func (purchaseModel) TableName() string { return "purchases" }

func (m *purchaseModel) toDomain() *domain.Purchase {
	return &domain.Purchase{
		ID:         m.ID,
		UserID:     m.UserID,
		SweetID:    m.SweetID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		TotalPrice: m.TotalPrice,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}
