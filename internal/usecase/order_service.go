package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/entity"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/logging"
	"github.com/google/uuid"
)

var (
	ErrDuplicate   = errors.New("duplicate idempotency key")
	ErrEmptyStatus = errors.New("empty status")
)

type SubmitInput struct {
	Name, Product, Payment, Note string

	// IdempotencyKey is optional; it only matters when an IdempotencyStore
	// is wired in.
	IdempotencyKey string

	Attachment *AttachmentUpload
}

type AttachmentUpload struct {
	Reader   io.Reader
	Filename string
}

type OrderService struct {
	repo  OrderRepo
	files AttachmentStore
	ntf   Notifier
	idem  IdempotencyStore

	notifyTimeout time.Duration
}

func NewOrderService(repo OrderRepo, files AttachmentStore, ntf Notifier, idem IdempotencyStore, notifyTimeout time.Duration) *OrderService {
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &OrderService{repo: repo, files: files, ntf: ntf, idem: idem, notifyTimeout: notifyTimeout}
}

// Submit validates the submission, stores the proof (if any), appends the
// order and fires the notification without waiting on it.
func (s *OrderService) Submit(ctx context.Context, in SubmitInput) (*entity.Order, error) {
	o := &entity.Order{
		Name:    strings.TrimSpace(in.Name),
		Product: strings.TrimSpace(in.Product),
		Note:    strings.TrimSpace(in.Note),
		Payment: strings.TrimSpace(in.Payment),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if id, ok, _ := s.idem.Recall(ctx, "order", in.IdempotencyKey); ok {
			return s.findByID(ctx, id)
		}
		ok, err := s.idem.TryLock(ctx, "order", in.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency lock: %w", err)
		}
		if !ok {
			return nil, ErrDuplicate
		}
	}

	o.ID = uuid.NewString()
	o.Status = entity.StatusPending
	o.Time = time.Now().UTC()

	// The blob must be durable before any record references it.
	if in.Attachment != nil && in.Attachment.Reader != nil {
		ref, err := s.files.Store(o.ID, in.Attachment.Reader, in.Attachment.Filename)
		if err != nil {
			return nil, err
		}
		o.Proof = &ref
	}

	if err := s.repo.Append(ctx, o); err != nil {
		return nil, fmt.Errorf("append order: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		_ = s.idem.Remember(ctx, "order", in.IdempotencyKey, o.ID)
	}

	s.notifyAsync(*o)
	return o, nil
}

func (s *OrderService) List(ctx context.Context) ([]entity.Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus applies an admin transition. Any non-empty status string is
// accepted; Updated is stamped on every transition.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrEmptyStatus
	}
	now := time.Now().UTC()
	return s.repo.FindAndUpdate(ctx, id, func(o *entity.Order) {
		o.Status = entity.Status(status)
		o.Updated = &now
	})
}

// notifyAsync is fire-and-forget: its context is detached from the request,
// bounded by the notifier timeout, and every error terminates in the log.
func (s *OrderService) notifyAsync(o entity.Order) {
	if s.ntf == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.ntf.Notify(ctx, o); err != nil {
			logging.Base().Error("order notification failed", "order_id", o.ID, "error", err)
		}
	}()
}

func (s *OrderService) findByID(ctx context.Context, id string) (*entity.Order, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("idempotent replay: order %s no longer present", id)
}
