package notify

import "log"

// User-facing messages. The channel is fire-and-forget; nothing in the
// core reads a reply.
const (
	MsgStockExceeded = "requested quantity is out of stock"
	MsgAddFailed     = "could not add product to cart"
	MsgRemoveFailed  = "could not remove product from cart"
	MsgUpdateFailed  = "could not update product quantity"
)

// Notifier delivers a user-visible message.
type Notifier interface {
	Notify(msg string)
}

// Log writes notifications to the process log.
type Log struct{}

func (Log) Notify(msg string) {
	log.Printf("notify: %s", msg)
}

// Func adapts a plain function to the Notifier interface.
type Func func(msg string)

func (f Func) Notify(msg string) { f(msg) }
