// Package service реализует бизнес-логику: сессии, учётные записи, корзины и оформление заказа.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mmeshcher/orderdesk/internal/model"
)

var (
	// ErrValidation возвращается для отсутствующих или некорректных полей запроса.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized возвращается при неверных учётных данных или недействительном токене.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound возвращается, если запрошенный ресурс не существует.
	ErrNotFound = errors.New("not found")
	// ErrStaleCart возвращается, если в корзине есть позиции, которых больше нет в меню.
	ErrStaleCart = errors.New("cart contains items that are no longer on the menu")
	// ErrPayment возвращается, если платёж не подтверждён провайдером.
	ErrPayment = errors.New("payment failed")
	// ErrDownstream оборачивает сбои хранилища и внешних сервисов.
	ErrDownstream = errors.New("downstream failure")
)

// Длины идентификаторов, генерируемых сервисом.
const (
	TokenIDLength = 20
	CartIDLength  = 20
	OrderIDLength = 20
)

// Records описывает типизированную коллекцию хранилища записей.
type Records[T any] interface {
	Create(ctx context.Context, id string, v T) error
	Read(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
}

// Catalog описывает проверку кодов и цен меню.
type Catalog interface {
	IsValidCode(code string) bool
	PriceOf(code string) (int64, bool)
}

// PaymentGateway списывает средства у внешнего платёжного провайдера.
type PaymentGateway interface {
	Charge(ctx context.Context, charge model.Charge) (*model.ChargeResult, error)
}

// Notifier отправляет письма пользователям.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventPublisher публикует диагностические события.
type EventPublisher interface {
	Publish(ctx context.Context, e model.Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.Event) error { return nil }

// newID возвращает случайную hex-строку длины n (n чётное).
func newID(n int) (string, error) {
	buf := make([]byte, n/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
