package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/api/middleware"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	createAdminFn   func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn         func(ctx context.Context, email, password string) (string, error)
	updateProfileFn func(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) CreateAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.createAdminFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, in)
}

type stubSweetService struct {
	createFn     func(ctx context.Context, in ports.CreateSweetInput) (*domain.Sweet, error)
	getFn        func(ctx context.Context, id string) (*domain.Sweet, error)
	listFn       func(ctx context.Context, skip, limit int) ([]*domain.Sweet, error)
	searchFn     func(ctx context.Context, in ports.SearchSweetsInput) ([]*domain.Sweet, error)
	updateFn     func(ctx context.Context, id string, in ports.UpdateSweetInput) (*domain.Sweet, error)
	deleteFn     func(ctx context.Context, id string) error
	categoriesFn func(ctx context.Context) ([]string, error)
}

func (s *stubSweetService) Create(ctx context.Context, in ports.CreateSweetInput) (*domain.Sweet, error) {
	return s.createFn(ctx, in)
}

func (s *stubSweetService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.getFn(ctx, id)
}

func (s *stubSweetService) List(ctx context.Context, skip, limit int) ([]*domain.Sweet, error) {
	return s.listFn(ctx, skip, limit)
}

func (s *stubSweetService) Search(ctx context.Context, in ports.SearchSweetsInput) ([]*domain.Sweet, error) {
	return s.searchFn(ctx, in)
}

func (s *stubSweetService) Update(ctx context.Context, id string, in ports.UpdateSweetInput) (*domain.Sweet, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubSweetService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubSweetService) Categories(ctx context.Context) ([]string, error) {
	return s.categoriesFn(ctx)
}

type stubInventoryService struct {
	purchaseFn func(ctx context.Context, user *domain.User, sweetID string, quantity int) (*ports.PurchaseReceipt, error)
	restockFn  func(ctx context.Context, sweetID string, quantity int) (*ports.RestockResult, error)
	listFn     func(ctx context.Context, user *domain.User) ([]ports.PurchaseReceipt, error)
}

func (s *stubInventoryService) Purchase(ctx context.Context, user *domain.User, sweetID string, quantity int) (*ports.PurchaseReceipt, error) {
	return s.purchaseFn(ctx, user, sweetID, quantity)
}

func (s *stubInventoryService) Restock(ctx context.Context, sweetID string, quantity int) (*ports.RestockResult, error) {
	return s.restockFn(ctx, sweetID, quantity)
}

func (s *stubInventoryService) ListPurchases(ctx context.Context, user *domain.User) ([]ports.PurchaseReceipt, error) {
	return s.listFn(ctx, user)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// newContext builds an echo context the way the router would see the
// request. user, when set, plays the part of the Authenticate middleware.
func newContext(t *testing.T, method, target, contentType string, body io.Reader, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetCurrentUser(c, user)
	}
	return c, rec
}

func strPtr(s string) *string { return &s }
