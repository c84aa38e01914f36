package usecase

import (
	"context"
	"io"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/entity"
)

// OrderRepo is the durable, ordered (newest-first) collection of orders.
type OrderRepo interface {
	Append(ctx context.Context, o *entity.Order) error
	List(ctx context.Context) ([]entity.Order, error)
	FindAndUpdate(ctx context.Context, id string, mutate func(*entity.Order)) (*entity.Order, error)
}

// AttachmentStore persists one proof blob per order, named after the order id.
type AttachmentStore interface {
	Store(ownerID string, src io.Reader, declaredName string) (ref string, err error)
}

// Notifier forwards a finalized order to the external chat endpoint.
// Implementations report errors; the service decides they never propagate.
type Notifier interface {
	Notify(ctx context.Context, o entity.Order) error
}

// IdempotencyStore guards against duplicate submissions sharing a client key.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}
