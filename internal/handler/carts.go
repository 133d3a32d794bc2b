package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/router"
	"github.com/mmeshcher/orderdesk/internal/service"
	"github.com/mmeshcher/orderdesk/internal/validation"
)

// Carts определяет операции над корзинами.
type Carts interface {
	Create(ctx context.Context, email string, items []model.CartItem) (*model.Cart, error)
	Replace(ctx context.Context, cartID string, items []model.CartItem) (*model.Cart, error)
	Get(ctx context.Context, cartID string) (*model.Cart, error)
	Delete(ctx context.Context, cartID string) error
}

// CartHandler обслуживает ресурс shoppingcarts. Корзина видна только её владельцу.
type CartHandler struct {
	responder
	carts    Carts
	sessions SessionVerifier
}

// NewCartHandler создаёт обработчик ресурса shoppingcarts.
func NewCartHandler(carts Carts, sessions SessionVerifier, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		responder: newResponder(logger),
		carts:     carts,
		sessions:  sessions,
	}
}

// Mount регистрирует маршруты ресурса.
func (h *CartHandler) Mount(rt *router.Router) {
	rt.Register("shoppingcarts", http.MethodGet, h.get)
	rt.Register("shoppingcarts", http.MethodPost, h.create)
	rt.Register("shoppingcarts", http.MethodPut, h.replace)
	rt.Register("shoppingcarts", http.MethodDelete, h.delete)
}

type cartRequest struct {
	Email string           `json:"email"`
	ID    string           `json:"id"`
	Items []model.CartItem `json:"items"`
}

func (h *CartHandler) get(ctx context.Context, req *router.Request) router.Response {
	email := strings.TrimSpace(req.Query.Get("email"))
	cartID := strings.TrimSpace(req.Query.Get("id"))
	if email == "" || !validation.HasLength(cartID, service.CartIDLength) {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}

	c, err := h.owned(ctx, email, cartID)
	if err != nil {
		return h.fail("get cart", err)
	}
	return ok(c)
}

func (h *CartHandler) create(ctx context.Context, req *router.Request) router.Response {
	var body cartRequest
	req.Decode(&body)

	email := strings.TrimSpace(body.Email)
	if email == "" {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}

	c, err := h.carts.Create(ctx, email, body.Items)
	if err != nil {
		return h.fail("create cart", err)
	}
	return ok(c)
}

func (h *CartHandler) replace(ctx context.Context, req *router.Request) router.Response {
	var body cartRequest
	req.Decode(&body)

	email := strings.TrimSpace(body.Email)
	cartID := strings.TrimSpace(body.ID)
	if email == "" || !validation.HasLength(cartID, service.CartIDLength) {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}

	if _, err := h.owned(ctx, email, cartID); err != nil {
		return h.fail("replace cart", err)
	}

	c, err := h.carts.Replace(ctx, cartID, body.Items)
	if err != nil {
		return h.fail("replace cart", err)
	}
	return ok(c)
}

func (h *CartHandler) delete(ctx context.Context, req *router.Request) router.Response {
	email := strings.TrimSpace(req.Query.Get("email"))
	cartID := strings.TrimSpace(req.Query.Get("id"))
	if email == "" || !validation.HasLength(cartID, service.CartIDLength) {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}

	if _, err := h.owned(ctx, email, cartID); err != nil {
		return h.fail("delete cart", err)
	}
	if err := h.carts.Delete(ctx, cartID); err != nil {
		return h.fail("delete cart", err)
	}
	return ok(nil)
}

// owned возвращает корзину, если она принадлежит email. Чужая корзина
// неотличима от несуществующей.
func (h *CartHandler) owned(ctx context.Context, email, cartID string) (*model.Cart, error) {
	c, err := h.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.Email != email {
		return nil, fmt.Errorf("%w: cart %s", service.ErrNotFound, cartID)
	}
	return c, nil
}
