package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/orderdesk/internal/model"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.NotEmpty(t, c.Items())
	assert.True(t, c.IsValidCode("12SCREEN"))

	price, ok := c.PriceOf("12SCREEN")
	assert.True(t, ok)
	assert.Equal(t, int64(12), price)
}

func TestPriceOf_UnknownCode(t *testing.T) {
	c, err := New([]model.MenuItem{{Code: "A", Name: "a", Price: 5}})
	require.NoError(t, err)

	assert.False(t, c.IsValidCode("B"))
	_, ok := c.PriceOf("B")
	assert.False(t, ok)
}

func TestNew_RejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name  string
		items []model.MenuItem
	}{
		{name: "empty code", items: []model.MenuItem{{Code: " ", Price: 1}}},
		{name: "zero price", items: []model.MenuItem{{Code: "A", Price: 0}}},
		{name: "duplicate", items: []model.MenuItem{{Code: "A", Price: 1}, {Code: "A", Price: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.items)
			require.ErrorIs(t, err, ErrInvalidItem)
		})
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	c, err := New([]model.MenuItem{{Code: "A", Name: "a", Price: 5}})
	require.NoError(t, err)

	items := c.Items()
	items[0].Price = 100

	price, _ := c.PriceOf("A")
	assert.Equal(t, int64(5), price)
	assert.Equal(t, int64(5), c.Items()[0].Price)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[{"code":"X","name":"x","price":3}]}`), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, c.IsValidCode("X"))

	_, err = Load(strings.NewReader("{"))
	require.Error(t, err)
}
