package messaging

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Memory is an in-process Messaging for single-node deployments and tests.
// Each group receives every message once; consumers without a group each get
// their own copy. Nacked messages are redelivered up to MaxRedeliveries times.
type Memory struct {
	mu     sync.RWMutex
	groups map[string]map[string]chan *memoryMessage
	closed bool
	seq    atomic.Uint64

	// MaxRedeliveries bounds redelivery of nacked messages.
	MaxRedeliveries int
}

// NewMemory returns an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{
		groups:          map[string]map[string]chan *memoryMessage{},
		MaxRedeliveries: 3,
	}
}

// Close stops accepting messages. Running consumers return once their context ends.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Publish fans msg out to every group subscribed to destination. Messages
// published before any consumer subscribes are dropped.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrUnsupported
	}

	id := strconv.FormatUint(m.seq.Add(1), 10)
	for _, ch := range m.groups[destination] {
		mm := &memoryMessage{
			id:      id,
			topic:   destination,
			body:    msg.Body,
			key:     msg.Key,
			headers: msg.Headers,
			at:      time.Now(),
		}
		select {
		case ch <- mm:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// Consume blocks until ctx is done, handling messages for source.
func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	ch := m.subscribe(source, co.group)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case mm := <-ch:
					//nolint:errcheck // in-process ack cannot fail
					dispatch(ctx, "memory", mm, handler, co.autoAck)
					if mm.nacked.Load() && mm.attempts < m.MaxRedeliveries {
						m.redeliver(ctx, ch, mm)
					}
				}
			}
		})
	}

	wg.Wait()
	return ctx.Err()
}

func (m *Memory) subscribe(topic, group string) chan *memoryMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	if group == "" {
		group = "_" + strconv.FormatUint(m.seq.Add(1), 10)
	}
	if m.groups[topic] == nil {
		m.groups[topic] = map[string]chan *memoryMessage{}
	}
	ch, ok := m.groups[topic][group]
	if !ok {
		ch = make(chan *memoryMessage, 64)
		m.groups[topic][group] = ch
	}
	return ch
}

func (m *Memory) redeliver(ctx context.Context, ch chan *memoryMessage, mm *memoryMessage) {
	next := &memoryMessage{
		id:       mm.id,
		topic:    mm.topic,
		body:     mm.body,
		key:      mm.key,
		headers:  mm.headers,
		at:       mm.at,
		attempts: mm.attempts + 1,
	}
	go func() {
		select {
		case ch <- next:
		case <-ctx.Done():
		}
	}()
}

type memoryMessage struct {
	responder
	id       string
	topic    string
	body     []byte
	key      []byte
	headers  map[string]string
	at       time.Time
	attempts int
	nacked   atomic.Bool
}

func (mm *memoryMessage) Body() []byte { return mm.body }
func (mm *memoryMessage) Key() []byte { return mm.key }
func (mm *memoryMessage) Header(key string) string { return mm.headers[key] }
func (mm *memoryMessage) ID() string { return mm.id }
func (mm *memoryMessage) Topic() string { return mm.topic }
func (mm *memoryMessage) Timestamp() time.Time { return mm.at }

func (mm *memoryMessage) Ack(context.Context) error {
	mm.claim()
	return nil
}

func (mm *memoryMessage) Nack(context.Context) error {
	if mm.claim() {
		mm.nacked.Store(true)
	}
	return nil
}
