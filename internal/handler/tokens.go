package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/router"
)

// Sessions определяет жизненный цикл сессионных токенов.
type Sessions interface {
	SessionVerifier
	Issue(ctx context.Context, email, password string) (*model.Token, error)
	Renew(ctx context.Context, tokenID string, extend bool) (*model.Token, error)
	Revoke(ctx context.Context, tokenID string) error
}

// TokenHandler обслуживает ресурс tokens.
type TokenHandler struct {
	responder
	sessions Sessions
}

// NewTokenHandler создаёт обработчик ресурса tokens.
func NewTokenHandler(sessions Sessions, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{responder: newResponder(logger), sessions: sessions}
}

// Mount регистрирует маршруты ресурса.
func (h *TokenHandler) Mount(rt *router.Router) {
	rt.Register("tokens", http.MethodPost, h.issue)
	rt.Register("tokens", http.MethodPut, h.renew)
	rt.Register("tokens", http.MethodDelete, h.revoke)
}

type issueRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type renewRequest struct {
	Token  string `json:"token"`
	Extend bool   `json:"extend"`
}

func (h *TokenHandler) issue(ctx context.Context, req *router.Request) router.Response {
	var body issueRequest
	req.Decode(&body)

	t, err := h.sessions.Issue(ctx, body.Email, body.Password)
	if err != nil {
		return h.fail("issue token", err)
	}
	return ok(t)
}

func (h *TokenHandler) renew(ctx context.Context, req *router.Request) router.Response {
	var body renewRequest
	req.Decode(&body)

	t, err := h.sessions.Renew(ctx, strings.TrimSpace(body.Token), body.Extend)
	if err != nil {
		return h.fail("renew token", err)
	}
	return ok(t)
}

func (h *TokenHandler) revoke(ctx context.Context, req *router.Request) router.Response {
	if err := h.sessions.Revoke(ctx, strings.TrimSpace(req.Query.Get("token"))); err != nil {
		return h.fail("revoke token", err)
	}
	return ok(nil)
}
