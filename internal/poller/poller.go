package poller

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/fjod/cart-manager/internal/store"
)

// messageReader is the part of kafka.Reader the poller uses.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Poller consumes stock-update events and reconciles the cart against
// them, so a line never keeps a quantity the warehouse no longer has.
type Poller struct {
	store  *store.CartStore
	reader messageReader
}

type stockUpdate struct {
	ProductID int64 `json:"product_id"`
	Amount    int   `json:"amount"`
}

func New(s *store.CartStore, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "stock-updates",
		GroupID:  "cart-manager-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{store: s, reader: reader}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.readAndReconcile(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

func (p *Poller) readAndReconcile(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var update stockUpdate
	if err := json.Unmarshal(m.Value, &update); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}
	if update.ProductID <= 0 {
		log.Println("missing or invalid product_id")
		return
	}

	if err := p.store.ReconcileStock(ctx, update.ProductID, update.Amount); err != nil {
		log.Printf("failed to reconcile stock for product %d: %v", update.ProductID, err)
	}
}
