package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/router"
	"github.com/mmeshcher/orderdesk/internal/service"
)

// Checkout оформляет заказ.
type Checkout interface {
	PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*model.Order, error)
}

// OrderHandler обслуживает ресурс orders.
type OrderHandler struct {
	responder
	checkout Checkout
}

// NewOrderHandler создаёт обработчик ресурса orders.
func NewOrderHandler(checkout Checkout, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{responder: newResponder(logger), checkout: checkout}
}

// Mount регистрирует маршруты ресурса.
func (h *OrderHandler) Mount(rt *router.Router) {
	rt.Register("orders", http.MethodPost, h.place)
}

// orderRequest.Token содержит платёжный токен, сессионный передаётся в заголовке.
type orderRequest struct {
	Email          string `json:"email"`
	ShoppingCartID string `json:"shoppingCartId"`
	Token          string `json:"token"`
}

func (h *OrderHandler) place(ctx context.Context, req *router.Request) router.Response {
	var body orderRequest
	req.Decode(&body)

	order, err := h.checkout.PlaceOrder(ctx, service.PlaceOrderRequest{
		SessionToken: req.Header.Get(TokenHeader),
		Email:        body.Email,
		CartID:       body.ShoppingCartID,
		PaymentToken: body.Token,
	})
	if err != nil {
		if order != nil {
			h.logger.Warn("order paid but not completed",
				zap.String("orderId", order.ID),
				zap.String("providerTransactionId", order.TransactionID),
			)
		}
		return h.fail("place order", err)
	}

	h.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.String("shoppingCartId", order.CartID),
	)
	return ok(nil)
}
