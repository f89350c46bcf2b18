package handler

import (
	"time"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// ErrorResponse is the standard error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8,max=100"`
	FullName string `json:"full_name" validate:"max=255"`
}

// loginRequest follows the OAuth2 password form: the email travels as username.
type loginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type updateProfileRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Password *string `json:"password"  validate:"omitempty,min=8,max=100"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  optional(u.FullName),
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// --- Sweets ---

type createSweetRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Category    string  `json:"category"    validate:"required,max=50"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Quantity    *int    `json:"quantity"    validate:"required,gte=0"`
	Description string  `json:"description" validate:"max=1000"`
	ImageURL    string  `json:"image_url"   validate:"max=500"`
}

func (r createSweetRequest) toInput() ports.CreateSweetInput {
	return ports.CreateSweetInput{
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		Quantity:    *r.Quantity,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

type updateSweetRequest struct {
	Name        *string  `json:"name"         validate:"omitempty,min=1,max=100"`
	Category    *string  `json:"category"     validate:"omitempty,min=1,max=50"`
	Price       *float64 `json:"price"        validate:"omitempty,gt=0"`
	Quantity    *int     `json:"quantity"     validate:"omitempty,gte=0"`
	Description *string  `json:"description"  validate:"omitempty,max=1000"`
	ImageURL    *string  `json:"image_url"    validate:"omitempty,max=500"`
	IsAvailable *bool    `json:"is_available"`
}

func (r updateSweetRequest) toInput() ports.UpdateSweetInput {
	return ports.UpdateSweetInput{
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		IsAvailable: r.IsAvailable,
	}
}

type sweetResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	IsAvailable bool      `json:"is_available"`
	IsInStock   bool      `json:"is_in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toSweetResponse(s *domain.Sweet) sweetResponse {
	return sweetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: optional(s.Description),
		ImageURL:    optional(s.ImageURL),
		IsAvailable: s.IsAvailable,
		IsInStock:   s.InStock(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toSweetResponses(sweets []*domain.Sweet) []sweetResponse {
	out := make([]sweetResponse, 0, len(sweets))
	for _, s := range sweets {
		out = append(out, toSweetResponse(s))
	}
	return out
}

// --- Inventory ---

type purchaseRequest struct {
	SweetID  string `json:"sweet_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=100"`
}

type purchaseResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SweetID    string    `json:"sweet_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	SweetName  string    `json:"sweet_name"`
	UserEmail  string    `json:"user_email"`
}

func toPurchaseResponse(r *ports.PurchaseReceipt) purchaseResponse {
	p := r.Purchase
	return purchaseResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		SweetID:    p.SweetID,
		Quantity:   p.Quantity,
		UnitPrice:  p.UnitPrice,
		TotalPrice: p.TotalPrice,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		SweetName:  r.SweetName,
		UserEmail:  r.UserEmail,
	}
}

type restockResponse struct {
	Message       string `json:"message"`
	OldQuantity   int    `json:"old_quantity"`
	NewQuantity   int    `json:"new_quantity"`
	AddedQuantity int    `json:"added_quantity"`
}

// --- Service info ---

type welcomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
