package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/repository"
)

// EventCartItemDropped публикуется для каждой отброшенной позиции корзины.
const EventCartItemDropped = "cart.item_dropped"

// MaxItemQuantity ограничивает количество одной позиции корзины.
const MaxItemQuantity = 1000

// CartManager управляет корзинами и считает их стоимость по текущему меню.
type CartManager struct {
	carts   Records[model.Cart]
	catalog Catalog
	events  EventPublisher
	now     func() time.Time
}

// NewCartManager создаёт менеджер корзин. events может быть nil.
func NewCartManager(carts Records[model.Cart], catalog Catalog, events EventPublisher) *CartManager {
	if events == nil {
		events = nopPublisher{}
	}
	return &CartManager{
		carts:   carts,
		catalog: catalog,
		events:  events,
		now:     time.Now,
	}
}

// Create создаёт корзину пользователя. Позиции с неизвестным кодом или
// неположительным количеством отбрасываются, это не ошибка.
func (m *CartManager) Create(ctx context.Context, email string, items []model.CartItem) (*model.Cart, error) {
	id, err := newID(CartIDLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownstream, err)
	}

	c := model.Cart{
		ID:     id,
		Email:  email,
		Status: model.CartStatusNew,
	}
	c.Items = m.filter(ctx, c.ID, items)

	if err := m.carts.Create(ctx, c.ID, c); err != nil {
		return nil, fmt.Errorf("%w: create cart: %v", ErrDownstream, err)
	}
	return &c, nil
}

// Replace заменяет позиции корзины целиком. Пустой список не меняет корзину.
func (m *CartManager) Replace(ctx context.Context, cartID string, items []model.CartItem) (*model.Cart, error) {
	c, err := m.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return c, nil
	}

	c.Items = m.filter(ctx, c.ID, items)
	if err := m.carts.Update(ctx, c.ID, *c); err != nil {
		return nil, fmt.Errorf("%w: update cart: %v", ErrDownstream, err)
	}
	return c, nil
}

// Get возвращает корзину по идентификатору.
func (m *CartManager) Get(ctx context.Context, cartID string) (*model.Cart, error) {
	c, err := m.carts.Read(ctx, cartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: cart %s", ErrNotFound, cartID)
		}
		return nil, fmt.Errorf("%w: read cart: %v", ErrDownstream, err)
	}
	if c.Items == nil {
		c.Items = []model.CartItem{}
	}
	return &c, nil
}

// Delete удаляет корзину.
func (m *CartManager) Delete(ctx context.Context, cartID string) error {
	if err := m.carts.Delete(ctx, cartID); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidKey) {
			return fmt.Errorf("%w: cart %s", ErrNotFound, cartID)
		}
		return fmt.Errorf("%w: delete cart: %v", ErrDownstream, err)
	}
	return nil
}

// ComputeTotal читает корзину и возвращает её стоимость в минимальных единицах валюты.
func (m *CartManager) ComputeTotal(ctx context.Context, cartID string) (int64, error) {
	c, err := m.Get(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return m.Total(c)
}

// Total считает стоимость корзины по текущим ценам меню, умноженную на 100.
// Позиция, исчезнувшая из меню, даёт ErrStaleCart. Переполнение суммы даёт
// ErrValidation, списание с такой суммой невозможно.
func (m *CartManager) Total(c *model.Cart) (int64, error) {
	const maxTotal = math.MaxInt64 / 100

	var total int64
	for _, it := range c.Items {
		price, ok := m.catalog.PriceOf(it.Code)
		if !ok {
			return 0, fmt.Errorf("%w: code %s", ErrStaleCart, it.Code)
		}
		if it.Quantity <= 0 || price < 0 {
			return 0, fmt.Errorf("%w: invalid line item %s", ErrValidation, it.Code)
		}

		qty := int64(it.Quantity)
		if price > 0 && qty > (maxTotal-total)/price {
			return 0, fmt.Errorf("%w: cart total is too large", ErrValidation)
		}
		total += price * qty
	}
	return total * 100, nil
}

func (m *CartManager) filter(ctx context.Context, cartID string, items []model.CartItem) []model.CartItem {
	kept := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		reason := ""
		switch {
		case it.Quantity <= 0:
			reason = "quantity must be positive"
		case it.Quantity > MaxItemQuantity:
			reason = "quantity exceeds limit"
		case !m.catalog.IsValidCode(it.Code):
			reason = "unknown menu code"
		}

		if reason == "" {
			kept = append(kept, model.CartItem{Code: it.Code, Quantity: it.Quantity})
			continue
		}

		_ = m.events.Publish(ctx, model.Event{
			Kind:    EventCartItemDropped,
			Subject: cartID,
			Attributes: map[string]string{
				"code":     it.Code,
				"quantity": strconv.Itoa(it.Quantity),
				"reason":   reason,
			},
			OccurredAt: m.now(),
		})
	}
	return kept
}
