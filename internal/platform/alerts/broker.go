// Package alerts fans out dashboard notifications to live subscribers.
package alerts

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
	"github.com/janisto/kyc-compliance/internal/platform/timeutil"
)

// Alert levels rendered by the dashboard.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Alert is a single notification.
type Alert struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
	ProfileID string        `json:"profileId,omitempty"`
	CreatedAt timeutil.Time `json:"createdAt"`
}

// Publisher accepts alerts for delivery.
type Publisher interface {
	Publish(ctx context.Context, alert Alert)
}

// Broker delivers each published alert to every current subscriber.
// A subscriber whose queue is full misses the alert; Publish never blocks.
type Broker struct {
	mu          sync.Mutex
	subscribers map[uint64]chan Alert
	nextID      uint64
	buffer      int
	dropped     uint64
	closed      bool
}

// NewBroker creates a broker with the given per-subscriber buffer.
// A non-positive buffer uses DefaultBuffer.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subscribers: make(map[uint64]chan Alert),
		buffer:      buffer,
	}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and
// closes the channel; calling it more than once is safe.
func (b *Broker) Subscribe() (<-chan Alert, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Alert, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Broker) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// Publish stamps the alert with an id and timestamp when missing and sends
// it to all subscribers.
func (b *Broker) Publish(ctx context.Context, alert Alert) {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = timeutil.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- alert:
		default:
			b.dropped++
			applog.LogWarn(ctx, "alert dropped for slow subscriber",
				zap.String("alertId", alert.ID),
				zap.String("kind", alert.Kind),
			)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Dropped returns how many deliveries were skipped because a queue was full.
func (b *Broker) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close closes every subscriber channel. Later publishes are discarded and
// later subscriptions receive an already closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

var _ Publisher = (*Broker)(nil)
