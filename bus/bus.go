package bus

import (
	"context"
	"sync"
)

// Handler receives the payload published on a topic.
type Handler func(payload []byte)

// Bus is the broadcast channel that tells other execution contexts a
// shared snapshot changed. Delivery is best-effort; subscribers reconcile
// through the snapshot's update token, so a dropped notification is only
// a delay, never a correctness problem.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(topic string, h Handler) (cancel func(), err error)
}

// Memory is an in-process Bus for tests and single-process deployments.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string]map[int]Handler
	nextID int
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]Handler)}
}

func (m *Memory) Publish(_ context.Context, topic string, payload []byte) error {
	m.mu.RLock()
	handlers := make([]Handler, 0, len(m.subs[topic]))
	for _, h := range m.subs[topic] {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
	return nil
}

func (m *Memory) Subscribe(topic string, h Handler) (func(), error) {
	m.mu.Lock()
	if m.subs[topic] == nil {
		m.subs[topic] = make(map[int]Handler)
	}
	id := m.nextID
	m.nextID++
	m.subs[topic][id] = h
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs[topic], id)
		m.mu.Unlock()
	}, nil
}
