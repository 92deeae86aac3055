package core

import (
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	log "github.com/sirupsen/logrus"

	"github.com/timada-org/todo/internal/todo"
	"github.com/timada-org/todo/pkg/topic"
)

const DefaultSubscriptionBuffer = 64

// Event is the envelope every notification travels in once it leaves the store.
type Event struct {
	Seq   uint64           `json:"seq"`
	Topic *topic.TopicName `json:"topic"`
	Name  string           `json:"name"`
	Data  any              `json:"data"`
}

type EventBusOptions struct {
	// Buffer is the channel capacity of each subscription.
	Buffer int
}

// EventBus fans store notifications out to topic filtered subscriptions.
type EventBus struct {
	mux           sync.RWMutex
	seq           uint64
	buffer        int
	subscriptions map[string]*Subscription
}

func NewEventBus(options *EventBusOptions) *EventBus {
	buffer := DefaultSubscriptionBuffer
	if options != nil && options.Buffer > 0 {
		buffer = options.Buffer
	}

	return &EventBus{
		buffer:        buffer,
		subscriptions: make(map[string]*Subscription),
	}
}

// Emit implements todo.Emitter.
func (bus *EventBus) Emit(e todo.Event) {
	name, err := topic.NewName(e.Topic())
	if err != nil {
		log.WithError(err).WithField("event", e.Name()).Error("dropping event with invalid topic")
		return
	}

	bus.Publish(&Event{Topic: name, Name: e.Name(), Data: e})
}

// Publish stamps the next sequence number on event and delivers it to every
// subscription whose filter matches its topic.
func (bus *EventBus) Publish(event *Event) {
	bus.mux.Lock()
	defer bus.mux.Unlock()

	bus.seq++
	event.Seq = bus.seq

	for _, subscription := range bus.subscriptions {
		subscription.send(event)
	}
}

// Subscribe registers filter with the bus default buffer.
func (bus *EventBus) Subscribe(filter *topic.TopicFilter) (*Subscription, error) {
	return bus.SubscribeWithBuffer(filter, bus.buffer)
}

// SubscribeWithBuffer registers filter with a channel of the given capacity.
// A subscriber that falls more than buffer events behind loses the overflow.
func (bus *EventBus) SubscribeWithBuffer(filter *topic.TopicFilter, buffer int) (*Subscription, error) {
	if buffer <= 0 {
		buffer = bus.buffer
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	subscription := &Subscription{
		ID:     id,
		Filter: filter,
		c:      make(chan *Event, buffer),
	}

	bus.mux.Lock()
	defer bus.mux.Unlock()

	bus.subscriptions[id] = subscription

	return subscription, nil
}

func (bus *EventBus) Unsubscribe(id string) {
	bus.mux.Lock()
	defer bus.mux.Unlock()

	if subscription, ok := bus.subscriptions[id]; ok {
		delete(bus.subscriptions, id)
		close(subscription.c)
	}
}

func (bus *EventBus) Len() int {
	bus.mux.RLock()
	defer bus.mux.RUnlock()

	return len(bus.subscriptions)
}

func (bus *EventBus) Close() {
	bus.mux.Lock()
	defer bus.mux.Unlock()

	for id, subscription := range bus.subscriptions {
		delete(bus.subscriptions, id)
		close(subscription.c)
	}
}

type Subscription struct {
	ID     string
	Filter *topic.TopicFilter
	c      chan *Event
}

// C delivers matching events. It is closed by Unsubscribe and Close.
func (s *Subscription) C() <-chan *Event {
	return s.c
}

// send never blocks: the bus is fed from inside the store lock.
func (s *Subscription) send(event *Event) {
	if !s.Filter.Match(event.Topic) {
		return
	}

	select {
	case s.c <- event:
	default:
		log.WithFields(log.Fields{
			"subscription": s.ID,
			"seq":          event.Seq,
			"topic":        event.Topic.String(),
		}).Warn("subscription buffer full, dropping event")
	}
}
