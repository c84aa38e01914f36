package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/entity"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/usecase"
)

var ErrNotFound = errors.New("not found")

// FileOrderRepo keeps the whole order collection in a single JSON array on
// disk, newest first. Every commit rewrites the file via temp-then-rename so
// a crash mid-write leaves the previous snapshot intact; readers never see a
// torn file.
type FileOrderRepo struct {
	path string
	mu   sync.RWMutex
}

func NewFileOrderRepo(path string) (*FileOrderRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("orders dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeAtomic(path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("seed orders file: %w", err)
		}
	} else if err != nil {
		return nil, err
	}
	return &FileOrderRepo{path: path}, nil
}

// Append prepends o and persists the full collection atomically.
func (r *FileOrderRepo) Append(ctx context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return err
	}
	orders = append([]entity.Order{*o}, orders...)
	return r.persist(orders)
}

// List returns the full collection in persisted order (newest first).
func (r *FileOrderRepo) List(ctx context.Context) ([]entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.load()
}

// FindAndUpdate applies mutate to the order with the given id under the
// writer lock and re-persists the whole collection atomically.
func (r *FileOrderRepo) FindAndUpdate(ctx context.Context, id string, mutate func(*entity.Order)) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		mutate(&orders[i])
		if err := r.persist(orders); err != nil {
			return nil, err
		}
		out := orders[i]
		return &out, nil
	}
	return nil, ErrNotFound
}

func (r *FileOrderRepo) load() ([]entity.Order, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	var orders []entity.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("decode orders file: %w", err)
	}
	return orders, nil
}

func (r *FileOrderRepo) persist(orders []entity.Order) error {
	raw, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	if err := writeAtomic(r.path, raw); err != nil {
		return fmt.Errorf("persist orders: %w", err)
	}
	return nil
}

// writeAtomic lands data in a temp file next to path and renames it into
// place. The rename is the commit point.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".orders-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		return err
	}
	tmp = nil
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

var _ usecase.OrderRepo = (*FileOrderRepo)(nil)
