package bus

import (
	"context"

	"github.com/nats-io/nats.go"
)

// Nats is a Bus over core NATS subjects.
type Nats struct {
	conn *nats.Conn
}

func NewNats(conn *nats.Conn) *Nats {
	return &Nats{conn: conn}
}

func (n *Nats) Publish(_ context.Context, topic string, payload []byte) error {
	return n.conn.Publish(topic, payload)
}

func (n *Nats) Subscribe(topic string, h Handler) (func(), error) {
	sub, err := n.conn.Subscribe(topic, func(msg *nats.Msg) {
		h(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() {
		_ = sub.Unsubscribe()
	}, nil
}
