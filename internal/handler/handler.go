// Package handler содержит обработчики ресурсов API и сборку HTTP-сервера.
//
// Каждый обработчик регистрирует свои пары (путь, метод) в router.Router
// через Mount. Сессионный токен передаётся в заголовке "token".
package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/router"
	"github.com/mmeshcher/orderdesk/internal/service"
)

// TokenHeader содержит имя заголовка с сессионным токеном.
const TokenHeader = "token"

const invalidTokenMessage = "invalid token"

// SessionVerifier проверяет сессионный токен пользователя.
type SessionVerifier interface {
	Verify(ctx context.Context, tokenID, email string) bool
}

type errorBody struct {
	Error string `json:"error"`
}

type responder struct {
	logger *zap.Logger
}

func newResponder(logger *zap.Logger) responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return responder{logger: logger}
}

func ok(body any) router.Response {
	return router.Response{Status: router.StatusOK, Body: body}
}

func badRequest(msg string) router.Response {
	return router.Response{Status: router.StatusBadRequest, Body: errorBody{Error: msg}}
}

func invalidToken() router.Response {
	return router.Response{Status: router.StatusUnauthorized, Body: errorBody{Error: invalidTokenMessage}}
}

// fail переводит ошибку сервиса в ответ. Внутренние ошибки логируются.
func (r responder) fail(op string, err error) router.Response {
	switch {
	case errors.Is(err, service.ErrValidation):
		return badRequest(err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return router.Response{Status: router.StatusUnauthorized, Body: errorBody{Error: err.Error()}}
	case errors.Is(err, service.ErrNotFound):
		return router.Response{Status: router.StatusNotFound}
	}

	r.logger.Error(op+" error", zap.Error(err))
	return router.Response{Status: router.StatusInternalError, Body: errorBody{Error: err.Error()}}
}

// authorized сообщает, действителен ли токен из заголовка для email.
func authorized(ctx context.Context, sessions SessionVerifier, req *router.Request, email string) bool {
	token := req.Header.Get(TokenHeader)
	return token != "" && sessions.Verify(ctx, token, email)
}
