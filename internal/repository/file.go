package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".json"

// FileStore хранит каждую запись отдельным JSON-файлом <baseDir>/<collection>/<id>.json.
type FileStore struct {
	baseDir string
}

// NewFileStore создаёт файловое хранилище и базовый каталог.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(collection, id string) string {
	return filepath.Join(s.baseDir, collection, id+fileExt)
}

// Create создаёт файл записи. Создание эксклюзивное: существующий файл не перезаписывается.
func (s *FileStore) Create(_ context.Context, collection, id string, doc []byte) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, collection), 0o750); err != nil {
		return fmt.Errorf("create collection dir: %w", err)
	}

	f, err := os.OpenFile(s.path(collection, id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s/%s", ErrExists, collection, id)
		}
		return fmt.Errorf("open %s/%s: %w", collection, id, err)
	}

	if _, err := f.Write(doc); err != nil {
		f.Close()
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s/%s: %w", collection, id, err)
	}
	return nil
}

// Read читает файл записи.
func (s *FileStore) Read(_ context.Context, collection, id string) ([]byte, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}

	doc, err := os.ReadFile(s.path(collection, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("read %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Update перезаписывает файл записи (truncate-and-write).
func (s *FileStore) Update(_ context.Context, collection, id string, doc []byte) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, collection), 0o750); err != nil {
		return fmt.Errorf("create collection dir: %w", err)
	}
	if err := os.WriteFile(s.path(collection, id), doc, 0o600); err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete удаляет файл записи.
func (s *FileStore) Delete(_ context.Context, collection, id string) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	if err := os.Remove(s.path(collection, id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List возвращает ключи записей коллекции. Для отсутствующей коллекции возвращается пустой список.
func (s *FileStore) List(_ context.Context, collection string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}
