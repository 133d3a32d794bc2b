package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/orderdesk/internal/model"
)

func TestCartManager_CreateFiltersItems(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()

	c, err := m.Create(context.Background(), "user@example.com", []model.CartItem{
		{Code: "A", Quantity: 2},
		{Code: "ZZZ", Quantity: 1},
		{Code: "B", Quantity: 0},
		{Code: "C", Quantity: -3},
		{Code: "A", Quantity: 1 << 60},
		{Code: "B", Quantity: MaxItemQuantity + 1},
		{Code: "B", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Len(t, c.ID, CartIDLength)
	assert.Equal(t, model.CartStatusNew, c.Status)
	assert.Equal(t, "user@example.com", c.Email)
	assert.Equal(t, []model.CartItem{{Code: "A", Quantity: 2}, {Code: "B", Quantity: 1}}, c.Items)

	assert.Len(t, f.events.kinds(), 5)
	for _, kind := range f.events.kinds() {
		assert.Equal(t, EventCartItemDropped, kind)
	}
	assert.Equal(t, "unknown menu code", f.events.events[0].Attributes["reason"])
	assert.Equal(t, "quantity must be positive", f.events.events[1].Attributes["reason"])
	assert.Equal(t, "quantity exceeds limit", f.events.events[3].Attributes["reason"])
	assert.Equal(t, "quantity exceeds limit", f.events.events[4].Attributes["reason"])
	assert.Equal(t, c.ID, f.events.events[0].Subject)

	stored, err := f.carts.Read(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Items, stored.Items)
}

func TestCartManager_CreateEmpty(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()

	c, err := m.Create(context.Background(), "user@example.com", nil)
	require.NoError(t, err)

	got, err := m.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestCartManager_ReplaceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()
	ctx := context.Background()

	c, err := m.Create(ctx, "user@example.com", []model.CartItem{{Code: "A", Quantity: 1}})
	require.NoError(t, err)

	items := []model.CartItem{{Code: "B", Quantity: 3}, {Code: "nope", Quantity: 1}}

	first, err := m.Replace(ctx, c.ID, items)
	require.NoError(t, err)
	second, err := m.Replace(ctx, c.ID, items)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []model.CartItem{{Code: "B", Quantity: 3}}, second.Items)

	got, err := m.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Items, got.Items)
}

func TestCartManager_ReplaceWithEmptyListKeepsCart(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()
	ctx := context.Background()

	c, err := m.Create(ctx, "user@example.com", []model.CartItem{{Code: "A", Quantity: 1}})
	require.NoError(t, err)

	got, err := m.Replace(ctx, c.ID, []model.CartItem{})
	require.NoError(t, err)
	assert.Equal(t, c.Items, got.Items)
}

func TestCartManager_NotFound(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()
	ctx := context.Background()

	_, err := m.Get(ctx, "abcdefghij1234567890")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = m.Replace(ctx, "abcdefghij1234567890", []model.CartItem{{Code: "A", Quantity: 1}})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = m.Delete(ctx, "../escape")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = m.ComputeTotal(ctx, "abcdefghij1234567890")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCartManager_Delete(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()
	ctx := context.Background()

	c, err := m.Create(ctx, "user@example.com", []model.CartItem{{Code: "A", Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, c.ID))
	_, err = m.Get(ctx, c.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCartManager_Total(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()

	tests := []struct {
		name  string
		items []model.CartItem
		want  int64
	}{
		{name: "empty", items: nil, want: 0},
		{name: "two pizzas", items: []model.CartItem{{Code: "A", Quantity: 2}, {Code: "B", Quantity: 1}}, want: 200000},
		{name: "cheap slices", items: []model.CartItem{{Code: "C", Quantity: 3}}, want: 1500},
		{name: "quantity at limit", items: []model.CartItem{{Code: "B", Quantity: MaxItemQuantity}}, want: 100000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Total(&model.Cart{ID: "cart", Items: tt.items})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCartManager_TotalStaleItem(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()
	ctx := context.Background()

	err := f.carts.Create(ctx, "abcdefghij1234567890", model.Cart{
		ID:     "abcdefghij1234567890",
		Email:  "user@example.com",
		Status: model.CartStatusNew,
		Items:  []model.CartItem{{Code: "A", Quantity: 1}, {Code: "GONE", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = m.ComputeTotal(ctx, "abcdefghij1234567890")
	assert.True(t, errors.Is(err, ErrStaleCart))
}

func TestCartManager_TotalOverflow(t *testing.T) {
	f := newFixture(t)
	m := f.cartManager()

	tests := []struct {
		name  string
		items []model.CartItem
	}{
		{name: "single huge line", items: []model.CartItem{{Code: "A", Quantity: 1 << 60}, {Code: "B", Quantity: 1}}},
		{name: "sum of lines", items: []model.CartItem{{Code: "B", Quantity: 1 << 55}, {Code: "B", Quantity: 1 << 55}}},
		{name: "scaling by 100", items: []model.CartItem{{Code: "C", Quantity: 1 << 58}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := m.Total(&model.Cart{ID: "cart", Items: tt.items})
			assert.True(t, errors.Is(err, ErrValidation), "got total=%d err=%v", total, err)
			assert.Zero(t, total)
		})
	}
}
