package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/fjod/cart-manager/internal/domain"
	"github.com/fjod/cart-manager/internal/snapshot"
	"github.com/fjod/cart-manager/internal/store"
)

type stubCatalog struct{}

func (stubCatalog) StockFor(_ context.Context, productID int64) (domain.Stock, error) {
	return domain.Stock{ProductID: productID}, nil
}

func (stubCatalog) ProductFor(_ context.Context, productID int64) (domain.Product, error) {
	return domain.Product{ID: productID}, nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

// fakeReader feeds a fixed list of messages, then blocks until the
// context is cancelled.
type fakeReader struct {
	m    sync.Mutex
	msgs []kafka.Message
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	f.m.Lock()
	if len(f.msgs) > 0 {
		msg := f.msgs[0]
		f.msgs = f.msgs[1:]
		f.m.Unlock()
		return msg, nil
	}
	f.m.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) Close() error { return nil }

func newTestStore(t *testing.T, seed domain.Cart) *store.CartStore {
	t.Helper()
	ctx := context.Background()
	snap := snapshot.NewMemoryStore()
	if seed != nil {
		data, err := snapshot.Encode(seed)
		require.NoError(t, err)
		require.NoError(t, snap.Set(ctx, data))
	}
	return store.New(ctx, snap, stubCatalog{}, nopNotifier{})
}

func TestPoller_ClampsCartToStockUpdate(t *testing.T) {
	cartStore := newTestStore(t, domain.Cart{
		{ProductID: 1, Title: "Shoe", Quantity: 5},
		{ProductID: 2, Title: "Cap", Quantity: 1},
	})

	reader := &fakeReader{msgs: []kafka.Message{
		{Value: []byte(`{"product_id":1,"amount":2}`)},
	}}
	p := &Poller{store: cartStore, reader: reader}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	require.Eventually(t, func() bool {
		entry, ok := cartStore.Entries().Find(1)
		return ok && entry.Quantity == 2
	}, time.Second, 10*time.Millisecond)
}

func TestPoller_RemovesSoldOutProduct(t *testing.T) {
	cartStore := newTestStore(t, domain.Cart{
		{ProductID: 1, Title: "Shoe", Quantity: 5},
	})

	reader := &fakeReader{msgs: []kafka.Message{
		{Value: []byte(`{"product_id":1,"amount":0}`)},
	}}
	p := &Poller{store: cartStore, reader: reader}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	require.Eventually(t, func() bool {
		return len(cartStore.Entries()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestPoller_SkipsMalformedMessages(t *testing.T) {
	cartStore := newTestStore(t, domain.Cart{
		{ProductID: 1, Title: "Shoe", Quantity: 5},
	})

	reader := &fakeReader{msgs: []kafka.Message{
		{Value: []byte(`not json`)},
		{Value: []byte(`{"amount":3}`)}, // missing product_id
		{Value: []byte(`{"product_id":1,"amount":3}`)},
	}}
	p := &Poller{store: cartStore, reader: reader}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// Only the valid trailing message takes effect.
	require.Eventually(t, func() bool {
		entry, ok := cartStore.Entries().Find(1)
		return ok && entry.Quantity == 3
	}, time.Second, 10*time.Millisecond)
}

func TestPoller_StopsOnCancel(t *testing.T) {
	cartStore := newTestStore(t, nil)
	reader := &fakeReader{}
	p := &Poller{store: cartStore, reader: reader}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	p.Close()
}
