// Package repository содержит хранилища записей, сгруппированных по коллекциям.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound возвращается, если запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrExists возвращается при попытке создать запись с уже занятым ключом.
	ErrExists = errors.New("record already exists")
	// ErrInvalidKey возвращается для пустых ключей и ключей с разделителями путей.
	ErrInvalidKey = errors.New("invalid record key")
)

// Backend описывает хранилище документов, сгруппированных по коллекциям.
type Backend interface {
	Create(ctx context.Context, collection, id string, doc []byte) error
	Read(ctx context.Context, collection, id string) ([]byte, error)
	Update(ctx context.Context, collection, id string, doc []byte) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]string, error)
}

// Collection типизирует коллекцию Backend и кодирует записи в JSON.
// Кодирование в JSON выполняется только здесь.
type Collection[T any] struct {
	backend Backend
	name    string
}

// NewCollection создаёт типизированную коллекцию с указанным именем.
func NewCollection[T any](backend Backend, name string) *Collection[T] {
	return &Collection[T]{backend: backend, name: name}
}

// Name возвращает имя коллекции.
func (c *Collection[T]) Name() string {
	return c.name
}

// Create сохраняет новую запись. Возвращает ErrExists, если ключ занят.
func (c *Collection[T]) Create(ctx context.Context, id string, v T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	return c.backend.Create(ctx, c.name, id, doc)
}

// Read читает и декодирует запись.
func (c *Collection[T]) Read(ctx context.Context, id string) (T, error) {
	var v T
	doc, err := c.backend.Read(ctx, c.name, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(doc, &v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return v, nil
}

// Update перезаписывает запись целиком.
func (c *Collection[T]) Update(ctx context.Context, id string, v T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	return c.backend.Update(ctx, c.name, id, doc)
}

// Delete удаляет запись.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.backend.Delete(ctx, c.name, id)
}

// List возвращает ключи всех записей коллекции.
func (c *Collection[T]) List(ctx context.Context) ([]string, error) {
	return c.backend.List(ctx, c.name)
}

func validateKey(collection, id string) error {
	for _, k := range []string{collection, id} {
		if k == "" || k == "." || k == ".." || strings.ContainsAny(k, `/\`) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, k)
		}
	}
	return nil
}
