package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/playperu/scoreboard/internal/scoreboard"
)

// Event names on the wire.
const (
	EventHello       = "hello"
	EventState       = "state"
	EventAdminOK     = "admin:ok"
	EventAdminError  = "admin:error"
	EventAdminAction = "admin:action"
)

const subscriberBuffer = 16

// Message is one server-to-client event.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newMessage(event string, v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: data}, nil
}

// Broker is an in-process pub/sub that fans state snapshots out to every
// connected client.
type Broker struct {
	mu     sync.RWMutex
	subs   map[chan Message]struct{}
	logger *slog.Logger
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		subs:   make(map[chan Message]struct{}),
		logger: logger,
	}
}

// Subscribe returns a channel that receives every published message.
func (b *Broker) Subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe stops delivery to ch. The channel is not closed; other
// senders may still hold it.
func (b *Broker) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Subscribers reports how many clients are listening.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish sends msg to all subscribers.
func (b *Broker) Publish(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			// Drop if subscriber is slow; the next state snapshot supersedes it.
			b.logger.Warn("dropping message for slow subscriber", "event", msg.Event)
		}
	}
}

// BroadcastState implements scoreboard.Broadcaster.
func (b *Broker) BroadcastState(st scoreboard.QuizState) {
	msg, err := newMessage(EventState, st)
	if err != nil {
		b.logger.Error("encoding state broadcast", "error", err)
		return
	}
	b.Publish(msg)
}
