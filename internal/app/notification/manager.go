// Package notification fans engine state updates out to subscribers.
package notification

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// DefaultBuffer is the channel capacity used when Subscribe gets a non-positive size.
const DefaultBuffer = 16

// subscription represents a subscriber's subscription.
type subscription struct {
	id string
	ch chan Notification
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a new subscription and returns its ID and channel.
func (m *Manager) Subscribe(buffer int) (string, <-chan Notification) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	sub := &subscription{
		id: id,
		ch: make(chan Notification, buffer),
	}
	m.subscriptions[id] = sub
	return id, sub.ch
}

// NextSequenceNo returns the next sequence number and increments the counter.
func (m *Manager) NextSequenceNo() uint64 {
	m.sequenceNoMu.Lock()
	defer m.sequenceNoMu.Unlock()
	m.sequenceNo++
	return m.sequenceNo
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subscriptions[subscriptionID]
	if !ok {
		return
	}
	delete(m.subscriptions, subscriptionID)
	close(sub.ch)
}

// Broadcast stamps n with the next sequence number and offers it to every
// subscriber. Subscribers whose buffer is full miss the update; Broadcast
// never blocks.
func (m *Manager) Broadcast(n Notification) Notification {
	n.SequenceNo = m.NextSequenceNo()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscriptions {
		select {
		case sub.ch <- n:
		default:
			zlog.Debug().
				Str("subscription", sub.id).
				Uint64("sequence_no", n.SequenceNo).
				Str("event", n.Type.String()).
				Msg("subscriber buffer full, dropping notification")
		}
	}
	return n
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close closes all subscriber channels and removes the subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subscriptions {
		close(sub.ch)
	}
	m.subscriptions = make(map[string]*subscription)
}
