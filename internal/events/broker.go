package events

import (
	"context"
	"sync"
	"time"

	"gdccrm/internal/logging"
	"gdccrm/internal/metrics"
)

// Topics
const (
	TopicEnquiry  = "enquiry"
	TopicCustomer = "customer"
	TopicSession  = "session"
)

// Actions
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionSignedIn  = "signed_in"
	ActionSignedOut = "signed_out"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before further events to it are dropped.
const subscriberBuffer = 16

var log = logging.Component("events")

// Event is a change notification.
type Event struct {
	Topic  string    `json:"topic"`
	Action string    `json:"action"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

// Publisher forwards events to an external system.
type Publisher interface {
	Publish(ev Event) error
}

type subscriber struct {
	ch     chan Event
	topics map[string]struct{}
}

// Broker fans events out to in-process subscribers and, optionally, to an
// external Publisher. Publish never blocks on a subscriber.
type Broker struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	remote Publisher
}

func NewBroker(remote Publisher) *Broker {
	return &Broker{
		subs:   make(map[*subscriber]struct{}),
		remote: remote,
	}
}

// Subscribe returns a channel receiving events for the given topics (all
// topics when none are given). The subscription ends and the channel is
// closed when ctx is done.
func (b *Broker) Subscribe(ctx context.Context, topics ...string) <-chan Event {
	s := &subscriber{
		ch:     make(chan Event, subscriberBuffer),
		topics: make(map[string]struct{}, len(topics)),
	}
	for _, t := range topics {
		s.topics[t] = struct{}{}
	}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	metrics.SubscriberAdded()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, s)
		close(s.ch)
		b.mu.Unlock()
		metrics.SubscriberRemoved()
	}()

	return s.ch
}

// Publish delivers ev to matching subscribers.
func (b *Broker) Publish(topic, action, id string) {
	ev := Event{Topic: topic, Action: action, ID: id, At: time.Now().UTC()}

	b.mu.Lock()
	for s := range b.subs {
		if len(s.topics) > 0 {
			if _, ok := s.topics[topic]; !ok {
				continue
			}
		}
		select {
		case s.ch <- ev:
		default:
			log.Warn().Str("topic", topic).Str(logging.ID, id).Msg("subscriber lagging, event dropped")
		}
	}
	b.mu.Unlock()

	if b.remote != nil {
		if err := b.remote.Publish(ev); err != nil {
			log.Error().Err(err).Str("topic", topic).Str(logging.ID, id).Msg("failed to forward event")
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
