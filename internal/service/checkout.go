package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/validation"
)

// События оформления заказа.
const (
	EventOrderPaid          = "order.paid"
	EventOrderReceiptFailed = "order.receipt_failed"
)

// SessionVerifier проверяет сессионный токен пользователя.
type SessionVerifier interface {
	Verify(ctx context.Context, tokenID, email string) bool
}

// CartSource читает корзину и считает её стоимость.
type CartSource interface {
	Get(ctx context.Context, cartID string) (*model.Cart, error)
	Total(c *model.Cart) (int64, error)
}

// PlaceOrderRequest содержит входные данные оформления заказа.
type PlaceOrderRequest struct {
	SessionToken string
	Email        string
	CartID       string
	PaymentToken string
}

// Checkout оформляет заказ: проверка сессии, расчёт суммы, оплата,
// сохранение заказа и отправка чека. Шаги не откатываются: успешный платёж
// остаётся в силе, даже если запись заказа или письмо не удались.
type Checkout struct {
	sessions SessionVerifier
	carts    CartSource
	orders   Records[model.Order]
	payments PaymentGateway
	notifier Notifier
	events   EventPublisher
	now      func() time.Time
}

// NewCheckout создаёт оркестратор оформления заказа. events может быть nil.
func NewCheckout(
	sessions SessionVerifier,
	carts CartSource,
	orders Records[model.Order],
	payments PaymentGateway,
	notifier Notifier,
	events EventPublisher,
) *Checkout {
	if events == nil {
		events = nopPublisher{}
	}
	return &Checkout{
		sessions: sessions,
		carts:    carts,
		orders:   orders,
		payments: payments,
		notifier: notifier,
		events:   events,
		now:      time.Now,
	}
}

// PlaceOrder оформляет и оплачивает заказ по корзине.
func (c *Checkout) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, error) {
	email := strings.TrimSpace(req.Email)
	cartID := strings.TrimSpace(req.CartID)
	paymentToken := strings.TrimSpace(req.PaymentToken)

	if !validation.IsValidEmail(email) || !validation.HasLength(cartID, CartIDLength) || paymentToken == "" {
		return nil, fmt.Errorf("%w: email, shoppingCartId and token are required", ErrValidation)
	}

	if req.SessionToken == "" || !c.sessions.Verify(ctx, req.SessionToken, email) {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	cart, err := c.carts.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: shopping cart %s could not be found", ErrValidation, cartID)
		}
		return nil, err
	}
	if cart.Email != email {
		return nil, fmt.Errorf("%w: shopping cart %s could not be found", ErrValidation, cartID)
	}

	total, err := c.carts.Total(cart)
	if err != nil {
		return nil, fmt.Errorf("calculate total: %w", err)
	}

	orderID, err := newID(OrderIDLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownstream, err)
	}

	charge, err := c.payments.Charge(ctx, model.Charge{
		OrderID:     orderID,
		Amount:      total,
		Description: fmt.Sprintf("Your order with id %s", orderID),
		Source:      paymentToken,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: order %s: %v", ErrPayment, orderID, err)
	}
	if charge == nil || !charge.Paid {
		return nil, fmt.Errorf("%w: order %s: charge was not completed", ErrPayment, orderID)
	}

	order := model.Order{
		ID:            orderID,
		CartID:        cart.ID,
		Status:        model.OrderStatusPaid,
		TransactionID: charge.TransactionID,
	}
	if err := c.orders.Create(ctx, order.ID, order); err != nil {
		return nil, fmt.Errorf("%w: save paid order %s (transaction %s): %v",
			ErrDownstream, order.ID, order.TransactionID, err)
	}

	c.publish(ctx, EventOrderPaid, &order, nil)

	subject := fmt.Sprintf("Order %s receipt", order.ID)
	if err := c.notifier.Send(ctx, email, subject, receipt(cart, total)); err != nil {
		c.publish(ctx, EventOrderReceiptFailed, &order, map[string]string{"error": err.Error()})
		return &order, fmt.Errorf("%w: send receipt for order %s: %v", ErrDownstream, order.ID, err)
	}

	return &order, nil
}

func (c *Checkout) publish(ctx context.Context, kind string, o *model.Order, extra map[string]string) {
	attrs := map[string]string{
		"shoppingCartId":        o.CartID,
		"providerTransactionId": o.TransactionID,
	}
	for k, v := range extra {
		attrs[k] = v
	}

	_ = c.events.Publish(ctx, model.Event{
		Kind:       kind,
		Subject:    o.ID,
		Attributes: attrs,
		OccurredAt: c.now(),
	})
}

func receipt(cart *model.Cart, total int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following will be delivered for $%d.%02d\n", total/100, total%100)
	for _, it := range cart.Items {
		fmt.Fprintf(&b, "  %d x %s\n", it.Quantity, it.Code)
	}
	fmt.Fprintf(&b, "Shopping cart: %s\n", cart.ID)
	return b.String()
}
