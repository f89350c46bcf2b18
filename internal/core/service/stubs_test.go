package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// memStore backs every repository port with maps. Transactions are
// serialized and restore a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users     map[string]domain.User
	sweets    map[string]domain.Sweet
	order     []string
	purchases []domain.Purchase

	failPurchase error
	// beforeDecrement runs ahead of DecrementStock and may change stock the
	// way a competing buyer would.
	beforeDecrement func()
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]domain.User),
		sweets: make(map[string]domain.Sweet),
	}
}

type memSnapshot struct {
	users     map[string]domain.User
	sweets    map[string]domain.Sweet
	order     []string
	purchases []domain.Purchase
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		users:     maps.Clone(m.users),
		sweets:    maps.Clone(m.sweets),
		order:     slices.Clone(m.order),
		purchases: slices.Clone(m.purchases),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users, m.sweets, m.order, m.purchases = s.users, s.sweets, s.order, s.purchases
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.snapshot()
	if err := fn(ctx, m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) Users() ports.UserRepository         { return memUsers{m} }
func (m *memStore) Sweets() ports.SweetRepository       { return memSweets{m} }
func (m *memStore) Purchases() ports.PurchaseRepository { return memPurchases{m} }

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweets[id].Quantity
}

func (m *memStore) ledger() []domain.Purchase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.purchases)
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) Update(_ context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, existing := range r.m.users {
		if id != u.ID && existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.m.users[u.ID] = *u
	return nil
}

type memSweets struct{ m *memStore }

func (r memSweets) nameTaken(name, exceptID string) bool {
	for id, s := range r.m.sweets {
		if id != exceptID && s.Name == name {
			return true
		}
	}
	return false
}

func (r memSweets) Create(_ context.Context, s *domain.Sweet) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.nameTaken(s.Name, "") {
		return domain.ErrSweetExists
	}
	r.m.sweets[s.ID] = *s
	r.m.order = append(r.m.order, s.ID)
	return nil
}

func (r memSweets) FindByID(_ context.Context, id string) (*domain.Sweet, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sweets[id]
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	return &s, nil
}

func (r memSweets) FindByIDForUpdate(ctx context.Context, id string) (*domain.Sweet, error) {
	return r.FindByID(ctx, id)
}

func (r memSweets) FindByIDs(_ context.Context, ids []string) ([]*domain.Sweet, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Sweet
	for _, id := range ids {
		if s, ok := r.m.sweets[id]; ok {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r memSweets) List(_ context.Context, f ports.SweetFilter) ([]*domain.Sweet, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Sweet
	for _, id := range r.m.order {
		s := r.m.sweets[id]
		switch {
		case f.AvailableOnly && !s.IsAvailable:
			continue
		case f.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Name)):
			continue
		case f.Category != "" && !strings.Contains(strings.ToLower(s.Category), strings.ToLower(f.Category)):
			continue
		case f.MinPrice != nil && s.Price < *f.MinPrice:
			continue
		case f.MaxPrice != nil && s.Price > *f.MaxPrice:
			continue
		}
		out = append(out, &s)
	}
	if f.Skip >= len(out) {
		return nil, nil
	}
	out = out[f.Skip:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memSweets) Update(_ context.Context, s *domain.Sweet) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sweets[s.ID]; !ok {
		return domain.ErrSweetNotFound
	}
	if r.nameTaken(s.Name, s.ID) {
		return domain.ErrSweetExists
	}
	r.m.sweets[s.ID] = *s
	return nil
}

func (r memSweets) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sweets[id]; !ok {
		return domain.ErrSweetNotFound
	}
	delete(r.m.sweets, id)
	r.m.order = slices.DeleteFunc(r.m.order, func(v string) bool { return v == id })
	return nil
}

func (r memSweets) Categories(_ context.Context) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []string
	for _, id := range r.m.order {
		if s := r.m.sweets[id]; s.IsAvailable {
			out = append(out, s.Category)
		}
	}
	return out, nil
}

func (r memSweets) DecrementStock(_ context.Context, id string, qty int) error {
	if r.m.beforeDecrement != nil {
		r.m.beforeDecrement()
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sweets[id]
	if !ok || !s.IsAvailable || s.Quantity < qty {
		return domain.ErrStockConflict
	}
	s.Quantity -= qty
	r.m.sweets[id] = s
	return nil
}

func (r memSweets) IncrementStock(_ context.Context, id string, qty int) (*domain.Sweet, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sweets[id]
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	s.Quantity += qty
	r.m.sweets[id] = s
	return &s, nil
}

type memPurchases struct{ m *memStore }

func (r memPurchases) Create(_ context.Context, p *domain.Purchase) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failPurchase != nil {
		return r.m.failPurchase
	}
	r.m.purchases = append(r.m.purchases, *p)
	return nil
}

func (r memPurchases) ListByUser(_ context.Context, userID string) ([]*domain.Purchase, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Purchase
	for _, p := range r.m.purchases {
		if p.UserID == userID {
			out = append(out, &p)
		}
	}
	return out, nil
}

// fakeHasher and fakeTokens keep service tests independent of bcrypt cost
// and signing keys.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool   { return hash == "hashed:"+password }

type fakeTokens struct{}

func (fakeTokens) Issue(subject string) (string, error) { return "token:" + subject, nil }

func (fakeTokens) Validate(token string) (string, error) {
	subject, ok := strings.CutPrefix(token, "token:")
	if !ok || subject == "" {
		return "", domain.ErrInvalidToken
	}
	return subject, nil
}

type memCache struct {
	categories  []string
	hit         bool
	invalidated int
	err         error
}

func (c *memCache) Get(context.Context) ([]string, bool, error) {
	return c.categories, c.hit, c.err
}

func (c *memCache) Set(_ context.Context, categories []string) error {
	c.categories, c.hit = slices.Clone(categories), true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.categories, c.hit = nil, false
	c.invalidated++
	return nil
}

var errBoom = errors.New("boom")

func (m *memStore) setStock(id string, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sweets[id]
	s.Quantity = qty
	m.sweets[id] = s
}
