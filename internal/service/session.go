package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/repository"
)

// TokenTTL задаёт время жизни сессионного токена.
const TokenTTL = time.Hour

// TokenStatus описывает результат проверки токена.
type TokenStatus int

const (
	// TokenValid означает действующий токен нужного пользователя.
	TokenValid TokenStatus = iota
	// TokenExpired означает, что срок действия токена истёк.
	TokenExpired
	// TokenIdentityMismatch означает, что токен выпущен для другого email.
	TokenIdentityMismatch
	// TokenNotFound означает, что токен не найден или не прочитан.
	TokenNotFound
)

// String возвращает текстовое имя статуса.
func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenIdentityMismatch:
		return "identity mismatch"
	default:
		return "not found"
	}
}

// SessionManager выпускает, проверяет, продлевает и отзывает сессионные токены.
type SessionManager struct {
	users  Records[model.User]
	tokens Records[model.Token]
	now    func() time.Time
}

// NewSessionManager создаёт менеджер сессий.
func NewSessionManager(users Records[model.User], tokens Records[model.Token]) *SessionManager {
	return &SessionManager{
		users:  users,
		tokens: tokens,
		now:    time.Now,
	}
}

// Issue проверяет пароль пользователя и выпускает новый токен на TokenTTL.
func (m *SessionManager) Issue(ctx context.Context, email, password string) (*model.Token, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	u, err := m.users.Read(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: email or password is incorrect", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: read user: %v", ErrDownstream, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: email or password is incorrect", ErrUnauthorized)
	}

	id, err := newID(TokenIDLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownstream, err)
	}

	t := model.Token{
		ID:        id,
		Email:     email,
		ExpiresAt: m.now().Add(TokenTTL),
	}
	if err := m.tokens.Create(ctx, t.ID, t); err != nil {
		return nil, fmt.Errorf("%w: create token: %v", ErrDownstream, err)
	}

	return &t, nil
}

// Verify сообщает, действителен ли токен для указанного email.
// Любая ошибка чтения трактуется как недействительный токен.
func (m *SessionManager) Verify(ctx context.Context, tokenID, email string) bool {
	return m.inspect(ctx, tokenID, email) == TokenValid
}

func (m *SessionManager) inspect(ctx context.Context, tokenID, email string) TokenStatus {
	if tokenID == "" {
		return TokenNotFound
	}

	t, err := m.tokens.Read(ctx, tokenID)
	if err != nil {
		return TokenNotFound
	}
	if t.Email != email {
		return TokenIdentityMismatch
	}
	if !t.ValidAt(m.now()) {
		return TokenExpired
	}
	return TokenValid
}

// Renew продлевает ещё действующий токен на TokenTTL от текущего момента.
// Истёкший токен не продлевается.
func (m *SessionManager) Renew(ctx context.Context, tokenID string, extend bool) (*model.Token, error) {
	if len(tokenID) != TokenIDLength || !extend {
		return nil, fmt.Errorf("%w: token and extend=true are required", ErrValidation)
	}

	t, err := m.tokens.Read(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: token %s", ErrNotFound, tokenID)
		}
		return nil, fmt.Errorf("%w: read token: %v", ErrDownstream, err)
	}

	now := m.now()
	if !t.ValidAt(now) {
		return nil, fmt.Errorf("%w: token is already expired", ErrValidation)
	}

	t.ExpiresAt = now.Add(TokenTTL)
	if err := m.tokens.Update(ctx, t.ID, t); err != nil {
		return nil, fmt.Errorf("%w: update token: %v", ErrDownstream, err)
	}

	return &t, nil
}

// Revoke удаляет токен.
func (m *SessionManager) Revoke(ctx context.Context, tokenID string) error {
	if len(tokenID) != TokenIDLength {
		return fmt.Errorf("%w: token must be provided", ErrValidation)
	}

	if err := m.tokens.Delete(ctx, tokenID); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidKey) {
			return fmt.Errorf("%w: token %s", ErrNotFound, tokenID)
		}
		return fmt.Errorf("%w: delete token: %v", ErrDownstream, err)
	}
	return nil
}
