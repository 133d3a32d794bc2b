// Package model содержит доменные сущности сервиса приёма заказов.
package model

import "time"

// User представляет зарегистрированного пользователя. Ключом записи служит email.
type User struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PasswordHash string `json:"passwordHash"`
	TOSAgreement bool   `json:"tosAgreement"`
}

// Token описывает сессионный токен, привязанный к email пользователя.
type Token struct {
	ID        string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires"`
}

// ValidAt сообщает, не истёк ли токен к моменту now.
func (t Token) ValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// CartStatus описывает статус корзины.
type CartStatus string

const (
	CartStatusNew CartStatus = "new"
)

// CartItem описывает позицию корзины: код меню и количество.
type CartItem struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// Cart описывает корзину пользователя.
type Cart struct {
	ID     string     `json:"id"`
	Email  string     `json:"email"`
	Status CartStatus `json:"status"`
	Items  []CartItem `json:"items"`
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPaid OrderStatus = "paid"
)

// Order описывает оплаченный заказ. После создания не изменяется.
type Order struct {
	ID            string      `json:"id"`
	CartID        string      `json:"shoppingCartId"`
	Status        OrderStatus `json:"status"`
	TransactionID string      `json:"providerTransactionId"`
}

// MenuItem описывает позицию меню. Цена указана в целых единицах валюты.
type MenuItem struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Charge описывает запрос на списание средств у платёжного провайдера.
type Charge struct {
	OrderID     string
	Amount      int64
	Description string
	Source      string
}

// ChargeResult описывает ответ платёжного провайдера.
type ChargeResult struct {
	TransactionID string
	Paid          bool
}

// Event описывает диагностическое событие для внешней системы наблюдения.
type Event struct {
	Kind       string            `json:"kind"`
	Subject    string            `json:"subject"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}
