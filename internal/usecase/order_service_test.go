package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu     sync.Mutex
	orders []entity.Order
	events *[]string
}

func (f *fakeRepo) Append(ctx context.Context, o *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.events != nil {
		*f.events = append(*f.events, "append")
	}
	f.orders = append([]entity.Order{*o}, f.orders...)
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeRepo) FindAndUpdate(ctx context.Context, id string, mutate func(*entity.Order)) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			mutate(&f.orders[i])
			out := f.orders[i]
			return &out, nil
		}
	}
	return nil, errors.New("not found")
}

type fakeStore struct {
	events *[]string
	calls  int
	err    error
}

func (f *fakeStore) Store(ownerID string, src io.Reader, declaredName string) (string, error) {
	f.calls++
	if f.events != nil {
		*f.events = append(*f.events, "store")
	}
	if f.err != nil {
		return "", f.err
	}
	return ownerID + ".jpg", nil
}

type fakeNotifier struct {
	got chan entity.Order
	err error
}

func (f *fakeNotifier) Notify(ctx context.Context, o entity.Order) error {
	if f.got != nil {
		f.got <- o
	}
	return f.err
}

type fakeIdem struct {
	mu     sync.Mutex
	locked map[string]bool
	seen   map[string]string
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{locked: map[string]bool{}, seen: map[string]string{}}
}

func (f *fakeIdem) TryLock(ctx context.Context, scope, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := scope + ":" + key
	if f.locked[k] {
		return false, nil
	}
	f.locked[k] = true
	return true, nil
}

func (f *fakeIdem) Remember(ctx context.Context, scope, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[scope+":"+key] = value
	return nil
}

func (f *fakeIdem) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.seen[scope+":"+key]
	return v, ok, nil
}

func validInput() SubmitInput {
	return SubmitInput{Name: "Ana", Product: "Widget", Payment: "cash"}
}

func TestSubmitRejectsMissingFieldsBeforeAnySideEffect(t *testing.T) {
	for _, tc := range []SubmitInput{
		{Product: "Widget", Payment: "cash"},
		{Name: "Ana", Payment: "cash"},
		{Name: "Ana", Product: "Widget"},
		{Name: "  ", Product: "Widget", Payment: "cash"},
	} {
		repo := &fakeRepo{}
		store := &fakeStore{}
		svc := NewOrderService(repo, store, nil, nil, 0)

		tc.Attachment = &AttachmentUpload{Reader: strings.NewReader("x"), Filename: "p.jpg"}
		_, err := svc.Submit(context.Background(), tc)
		require.ErrorIs(t, err, entity.ErrMissingFields)
		assert.Zero(t, store.calls, "no attachment may be stored")
		orders, _ := repo.List(context.Background())
		assert.Empty(t, orders, "no record may be appended")
	}
}

func TestSubmitCreatesPendingOrder(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewOrderService(repo, &fakeStore{}, nil, nil, 0)

	o, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, entity.StatusPending, o.Status)
	assert.Nil(t, o.Proof)
	assert.Nil(t, o.Updated)
	assert.False(t, o.Time.IsZero())
}

func TestSubmitGeneratesUniqueIDs(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewOrderService(repo, &fakeStore{}, nil, nil, 0)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		o, err := svc.Submit(context.Background(), validInput())
		require.NoError(t, err)
		require.False(t, seen[o.ID], "duplicate id %s", o.ID)
		seen[o.ID] = true
	}
}

func TestSubmitStoresAttachmentBeforeAppend(t *testing.T) {
	var events []string
	repo := &fakeRepo{events: &events}
	store := &fakeStore{events: &events}
	svc := NewOrderService(repo, store, nil, nil, 0)

	in := validInput()
	in.Attachment = &AttachmentUpload{Reader: strings.NewReader("img"), Filename: "proof.png"}
	o, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, o.Proof)
	assert.Equal(t, o.ID+".jpg", *o.Proof)
	assert.Equal(t, []string{"store", "append"}, events)
}

func TestSubmitAbortsWhenAttachmentStoreFails(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{err: errors.New("disk full")}
	svc := NewOrderService(repo, store, nil, nil, 0)

	in := validInput()
	in.Attachment = &AttachmentUpload{Reader: strings.NewReader("img"), Filename: "p.jpg"}
	_, err := svc.Submit(context.Background(), in)
	require.Error(t, err)

	orders, _ := repo.List(context.Background())
	assert.Empty(t, orders)
}

func TestSubmitNotifiesAsynchronously(t *testing.T) {
	nf := &fakeNotifier{got: make(chan entity.Order, 1)}
	svc := NewOrderService(&fakeRepo{}, &fakeStore{}, nf, nil, time.Second)

	o, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	select {
	case got := <-nf.got:
		assert.Equal(t, o.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never dispatched")
	}
}

func TestSubmitSucceedsWhenNotifierFails(t *testing.T) {
	nf := &fakeNotifier{got: make(chan entity.Order, 1), err: errors.New("telegram down")}
	repo := &fakeRepo{}
	svc := NewOrderService(repo, &fakeStore{}, nf, nil, time.Second)

	o, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, o)
	<-nf.got

	orders, _ := repo.List(context.Background())
	require.Len(t, orders, 1)
}

func TestSubmitWithoutNotifierConfigured(t *testing.T) {
	svc := NewOrderService(&fakeRepo{}, &fakeStore{}, nil, nil, 0)
	_, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
}

func TestSubmitIdempotencyReplayReturnsOriginal(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewOrderService(repo, &fakeStore{}, nil, newFakeIdem(), 0)

	in := validInput()
	in.IdempotencyKey = "k1"
	first, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	orders, _ := repo.List(context.Background())
	assert.Len(t, orders, 1)
}

func TestSubmitConcurrentDuplicateGetsErrDuplicate(t *testing.T) {
	idem := newFakeIdem()
	// simulate an in-flight submission holding the lock without a mapping yet
	ok, err := idem.TryLock(context.Background(), "order", "k2")
	require.NoError(t, err)
	require.True(t, ok)

	svc := NewOrderService(&fakeRepo{}, &fakeStore{}, nil, idem, 0)
	in := validInput()
	in.IdempotencyKey = "k2"
	_, err = svc.Submit(context.Background(), in)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestUpdateStatusStampsUpdated(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewOrderService(repo, &fakeStore{}, nil, nil, 0)
	o, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), o.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, entity.Status("confirmed"), got.Status)
	require.NotNil(t, got.Updated)

	// free text is accepted
	got, err = svc.UpdateStatus(context.Background(), o.ID, "menunggu pembayaran")
	require.NoError(t, err)
	assert.Equal(t, entity.Status("menunggu pembayaran"), got.Status)
}

func TestUpdateStatusRejectsEmptyStatus(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewOrderService(repo, &fakeStore{}, nil, nil, 0)
	o, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, "   ")
	require.ErrorIs(t, err, ErrEmptyStatus)

	orders, _ := repo.List(context.Background())
	assert.Equal(t, entity.StatusPending, orders[0].Status)
}
