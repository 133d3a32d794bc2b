package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/repository"
	"github.com/mmeshcher/orderdesk/internal/validation"
)

// Registration содержит данные для регистрации пользователя.
type Registration struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	TOSAgreement bool
}

// ProfileUpdate содержит изменяемые поля профиля. Пустые поля не меняются.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Password  string
}

// Accounts управляет учётными записями пользователей.
type Accounts struct {
	users Records[model.User]
}

// NewAccounts создаёт сервис учётных записей.
func NewAccounts(users Records[model.User]) *Accounts {
	return &Accounts{users: users}
}

// Register создаёт пользователя. Пароль хранится только в виде bcrypt-хэша.
func (a *Accounts) Register(ctx context.Context, r Registration) error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)

	if r.FirstName == "" || r.LastName == "" || r.Password == "" || !r.TOSAgreement ||
		!validation.IsValidEmail(r.Email) {
		return fmt.Errorf("%w: required fields were not provided or email is not valid", ErrValidation)
	}

	hash, err := hashPassword(r.Password)
	if err != nil {
		return err
	}

	u := model.User{
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: hash,
		TOSAgreement: true,
	}
	if err := a.users.Create(ctx, u.Email, u); err != nil {
		if errors.Is(err, repository.ErrExists) {
			return fmt.Errorf("%w: user %s already exists", ErrValidation, u.Email)
		}
		return fmt.Errorf("%w: create user: %v", ErrDownstream, err)
	}
	return nil
}

// Get возвращает пользователя по email.
func (a *Accounts) Get(ctx context.Context, email string) (*model.User, error) {
	u, err := a.users.Read(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("%w: read user: %v", ErrDownstream, err)
	}
	return &u, nil
}

// Update меняет имя, фамилию и/или пароль пользователя.
func (a *Accounts) Update(ctx context.Context, email string, p ProfileUpdate) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Password = strings.TrimSpace(p.Password)

	if p.FirstName == "" && p.LastName == "" && p.Password == "" {
		return fmt.Errorf("%w: at least one field to update should be provided", ErrValidation)
	}

	u, err := a.Get(ctx, email)
	if err != nil {
		return err
	}

	if p.FirstName != "" {
		u.FirstName = p.FirstName
	}
	if p.LastName != "" {
		u.LastName = p.LastName
	}
	if p.Password != "" {
		if u.PasswordHash, err = hashPassword(p.Password); err != nil {
			return err
		}
	}

	if err := a.users.Update(ctx, u.Email, *u); err != nil {
		return fmt.Errorf("%w: update user: %v", ErrDownstream, err)
	}
	return nil
}

// Delete удаляет пользователя. Корзины и заказы пользователя не удаляются.
func (a *Accounts) Delete(ctx context.Context, email string) error {
	if err := a.users.Delete(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidKey) {
			return fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return fmt.Errorf("%w: delete user: %v", ErrDownstream, err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is too long", ErrValidation)
		}
		return "", fmt.Errorf("%w: hash password: %v", ErrDownstream, err)
	}
	return string(hash), nil
}
