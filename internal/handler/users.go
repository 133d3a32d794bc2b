package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/router"
	"github.com/mmeshcher/orderdesk/internal/service"
)

// Accounts определяет операции над учётными записями.
type Accounts interface {
	Register(ctx context.Context, r service.Registration) error
	Get(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, email string, p service.ProfileUpdate) error
	Delete(ctx context.Context, email string) error
}

// UserHandler обслуживает ресурс users.
type UserHandler struct {
	responder
	accounts Accounts
	sessions SessionVerifier
}

// NewUserHandler создаёт обработчик ресурса users.
func NewUserHandler(accounts Accounts, sessions SessionVerifier, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		responder: newResponder(logger),
		accounts:  accounts,
		sessions:  sessions,
	}
}

// Mount регистрирует маршруты ресурса.
func (h *UserHandler) Mount(rt *router.Router) {
	rt.Register("users", http.MethodPost, h.create)
	rt.Register("users", http.MethodGet, h.get)
	rt.Register("users", http.MethodPut, h.update)
	rt.Register("users", http.MethodDelete, h.delete)
}

type userRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	TOSAgreement bool   `json:"tosAgreement"`
}

// userResponse не содержит хэш пароля.
type userResponse struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	TOSAgreement bool   `json:"tosAgreement"`
}

func (h *UserHandler) create(ctx context.Context, req *router.Request) router.Response {
	var body userRequest
	req.Decode(&body)

	err := h.accounts.Register(ctx, service.Registration{
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Email:        body.Email,
		Password:     body.Password,
		TOSAgreement: body.TOSAgreement,
	})
	if err != nil {
		return h.fail("register user", err)
	}
	return ok(nil)
}

func (h *UserHandler) get(ctx context.Context, req *router.Request) router.Response {
	email := strings.TrimSpace(req.Query.Get("email"))
	if email == "" {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}

	u, err := h.accounts.Get(ctx, email)
	if err != nil {
		return h.fail("get user", err)
	}
	return ok(userResponse{
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		TOSAgreement: u.TOSAgreement,
	})
}

func (h *UserHandler) update(ctx context.Context, req *router.Request) router.Response {
	var body userRequest
	req.Decode(&body)

	email := strings.TrimSpace(body.Email)
	if email == "" {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}

	err := h.accounts.Update(ctx, email, service.ProfileUpdate{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Password:  body.Password,
	})
	if err != nil {
		return h.fail("update user", err)
	}
	return ok(nil)
}

func (h *UserHandler) delete(ctx context.Context, req *router.Request) router.Response {
	email := strings.TrimSpace(req.Query.Get("email"))
	if email == "" {
		return badRequest("missing required field")
	}
	if !authorized(ctx, h.sessions, req, email) {
		return invalidToken()
	}

	if err := h.accounts.Delete(ctx, email); err != nil {
		return h.fail("delete user", err)
	}
	return ok(nil)
}
