package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/router"
)

// Menu отдаёт позиции меню.
type Menu interface {
	Items() []model.MenuItem
}

// MenuHandler обслуживает ресурс menu. Меню доступно только с действующим токеном.
type MenuHandler struct {
	menu     Menu
	sessions SessionVerifier
}

// NewMenuHandler создаёт обработчик ресурса menu.
func NewMenuHandler(menu Menu, sessions SessionVerifier) *MenuHandler {
	return &MenuHandler{menu: menu, sessions: sessions}
}

// Mount регистрирует маршруты ресурса.
func (h *MenuHandler) Mount(rt *router.Router) {
	rt.Register("menu", http.MethodGet, h.list)
}

func (h *MenuHandler) list(ctx context.Context, req *router.Request) router.Response {
	email := strings.TrimSpace(req.Query.Get("email"))
	if email == "" {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}
	return ok(h.menu.Items())
}
