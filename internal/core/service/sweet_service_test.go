package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

func newSweetService(t *testing.T) (*SweetService, *memStore, *memCache) {
	t.Helper()
	store := newMemStore()
	cache := &memCache{}
	return NewSweetService(store.Sweets(), cache, DefaultMaxPrice, zerolog.Nop()), store, cache
}

func mustCreate(t *testing.T, svc *SweetService, name, category string, price float64) *domain.Sweet {
	t.Helper()
	s, err := svc.Create(context.Background(), ports.CreateSweetInput{
		Name: name, Category: category, Price: price, Quantity: 10,
	})
	require.NoError(t, err)
	return s
}

func TestSweetService_Create(t *testing.T) {
	svc, _, _ := newSweetService(t)

	s, err := svc.Create(context.Background(), ports.CreateSweetInput{
		Name: "  Mint Drop ", Category: "Hard Candy", Price: 1.499, Quantity: 4, ImageURL: "https://img/mint.png",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Mint Drop", s.Name)
	assert.Equal(t, 1.5, s.Price)
	assert.True(t, s.IsAvailable)
	assert.True(t, s.InStock())
	assert.False(t, s.CreatedAt.IsZero())
}

func TestSweetService_Create_Validation(t *testing.T) {
	svc, _, _ := newSweetService(t)
	mustCreate(t, svc, "Licorice", "Chewy", 2)

	tests := []struct {
		name string
		in   ports.CreateSweetInput
		want error
	}{
		{"zero price", ports.CreateSweetInput{Name: "A", Category: "C", Price: 0}, domain.ErrInvalidPrice},
		{"negative price", ports.CreateSweetInput{Name: "A", Category: "C", Price: -1}, domain.ErrInvalidPrice},
		{"price over max", ports.CreateSweetInput{Name: "A", Category: "C", Price: DefaultMaxPrice + 0.01}, domain.ErrInvalidPrice},
		{"missing name", ports.CreateSweetInput{Category: "C", Price: 1}, domain.ErrInvalidInput},
		{"negative quantity", ports.CreateSweetInput{Name: "A", Category: "C", Price: 1, Quantity: -1}, domain.ErrInvalidInput},
		{"duplicate name", ports.CreateSweetInput{Name: "Licorice", Category: "C", Price: 1}, domain.ErrSweetExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Create(context.Background(), ports.CreateSweetInput{Name: "Max", Category: "C", Price: DefaultMaxPrice})
	require.NoError(t, err)
}

func TestSweetService_Get_HidesUnavailable(t *testing.T) {
	svc, _, _ := newSweetService(t)
	s := mustCreate(t, svc, "Praline", "Nut", 3)

	got, err := svc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = svc.Update(context.Background(), s.ID, ports.UpdateSweetInput{IsAvailable: ptr(false)})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), s.ID)
	require.ErrorIs(t, err, domain.ErrSweetNotFound)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetService_List_ClampsPaging(t *testing.T) {
	svc, _, _ := newSweetService(t)
	for _, name := range []string{"A", "B", "C"} {
		mustCreate(t, svc, name, "Cat", 1)
	}
	hidden := mustCreate(t, svc, "D", "Cat", 1)
	_, err := svc.Update(context.Background(), hidden.ID, ports.UpdateSweetInput{IsAvailable: ptr(false)})
	require.NoError(t, err)

	tests := []struct {
		name        string
		skip, limit int
		want        []string
	}{
		{"defaults", 0, 100, []string{"A", "B", "C"}},
		{"limit below range", 0, 0, []string{"A"}},
		{"limit above range", 0, 1000, []string{"A", "B", "C"}},
		{"negative skip", -5, 2, []string{"A", "B"}},
		{"skip", 1, 100, []string{"B", "C"}},
		{"skip past end", 10, 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), tt.skip, tt.limit)
			require.NoError(t, err)
			var names []string
			for _, s := range got {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSweetService_Search(t *testing.T) {
	svc, _, _ := newSweetService(t)
	mustCreate(t, svc, "Dark Chocolate Bar", "Chocolate", 4.5)
	mustCreate(t, svc, "Milk Chocolate Bar", "Chocolate", 3)
	mustCreate(t, svc, "Sour Worms", "Gummy", 2)

	tests := []struct {
		name string
		in   ports.SearchSweetsInput
		want int
	}{
		{"no filters", ports.SearchSweetsInput{}, 3},
		{"name case-insensitive", ports.SearchSweetsInput{Name: "CHOCO"}, 2},
		{"category partial", ports.SearchSweetsInput{Category: "gum"}, 1},
		{"inclusive price range", ports.SearchSweetsInput{MinPrice: ptr(3.0), MaxPrice: ptr(4.5)}, 2},
		{"conjunctive", ports.SearchSweetsInput{Name: "bar", MaxPrice: ptr(3.0)}, 1},
		{"no match", ports.SearchSweetsInput{Name: "toffee"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestSweetService_Update(t *testing.T) {
	svc, _, _ := newSweetService(t)
	s := mustCreate(t, svc, "Jelly Bean", "Gummy", 1)
	mustCreate(t, svc, "Gumdrop", "Gummy", 1)

	updated, err := svc.Update(context.Background(), s.ID, ports.UpdateSweetInput{Price: ptr(2.25), Quantity: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, "Jelly Bean", updated.Name)
	assert.Equal(t, 2.25, updated.Price)
	assert.Equal(t, 0, updated.Quantity)
	assert.False(t, updated.InStock())

	_, err = svc.Update(context.Background(), s.ID, ports.UpdateSweetInput{Name: ptr("Gumdrop")})
	require.ErrorIs(t, err, domain.ErrSweetExists)
	assert.EqualError(t, err, "Sweet with name 'Gumdrop' already exists")

	_, err = svc.Update(context.Background(), s.ID, ports.UpdateSweetInput{Price: ptr(0.0)})
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Update(context.Background(), "missing", ports.UpdateSweetInput{Name: ptr("X")})
	require.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetService_Delete(t *testing.T) {
	svc, _, _ := newSweetService(t)
	s := mustCreate(t, svc, "Rock Candy", "Hard Candy", 1)

	require.NoError(t, svc.Delete(context.Background(), s.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), s.ID), domain.ErrSweetNotFound)

	_, err := svc.Get(context.Background(), s.ID)
	require.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetService_Categories(t *testing.T) {
	svc, _, cache := newSweetService(t)
	mustCreate(t, svc, "A", "Toffee", 1)
	mustCreate(t, svc, "B", "Chocolate", 1)
	mustCreate(t, svc, "C", "Toffee", 1)
	hidden := mustCreate(t, svc, "D", "Seasonal", 1)
	_, err := svc.Update(context.Background(), hidden.ID, ports.UpdateSweetInput{IsAvailable: ptr(false)})
	require.NoError(t, err)

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chocolate", "Toffee"}, got)
	assert.True(t, cache.hit)

	mustCreate(t, svc, "E", "Gummy", 1)
	assert.False(t, cache.hit, "catalog writes must invalidate the cache")

	got, err = svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chocolate", "Gummy", "Toffee"}, got)
}

func TestSweetService_Categories_CacheFailureFallsBack(t *testing.T) {
	svc, _, cache := newSweetService(t)
	mustCreate(t, svc, "A", "Toffee", 1)
	cache.err = errBoom

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Toffee"}, got)
}
