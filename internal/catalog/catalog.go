// Package catalog содержит меню, загружаемое один раз при старте сервиса.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmeshcher/orderdesk/internal/model"
)

//go:embed menu.json
var defaultMenu []byte

// ErrInvalidItem возвращается для позиций меню без кода, с повторяющимся кодом или неположительной ценой.
var ErrInvalidItem = errors.New("invalid menu item")

// Catalog хранит позиции меню. После создания не изменяется.
// Безопасен для конкурентного чтения.
type Catalog struct {
	items  []model.MenuItem
	byCode map[string]model.MenuItem
}

type menuFile struct {
	Items []model.MenuItem `json:"items"`
}

// New создаёт каталог из списка позиций.
func New(items []model.MenuItem) (*Catalog, error) {
	c := &Catalog{
		items:  make([]model.MenuItem, 0, len(items)),
		byCode: make(map[string]model.MenuItem, len(items)),
	}

	for _, it := range items {
		it.Code = strings.TrimSpace(it.Code)
		if it.Code == "" || it.Price <= 0 {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidItem, it)
		}
		if _, dup := c.byCode[it.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrInvalidItem, it.Code)
		}
		c.items = append(c.items, it)
		c.byCode[it.Code] = it
	}

	return c, nil
}

// Load читает меню в формате {"items": [...]}.
func Load(r io.Reader) (*Catalog, error) {
	var f menuFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return New(f.Items)
}

// LoadFile читает меню из файла.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Default возвращает встроенное меню.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultMenu))
}

// Items возвращает копию списка позиций в исходном порядке.
func (c *Catalog) Items() []model.MenuItem {
	return append([]model.MenuItem(nil), c.items...)
}

// IsValidCode сообщает, есть ли позиция с таким кодом.
func (c *Catalog) IsValidCode(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// PriceOf возвращает цену позиции. Второе значение false, если код неизвестен.
func (c *Catalog) PriceOf(code string) (int64, bool) {
	it, ok := c.byCode[code]
	return it.Price, ok
}
