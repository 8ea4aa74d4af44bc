package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestSubscribeFiltersTopics(t *testing.T) {
	b := NewBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enquiries := b.Subscribe(ctx, TopicEnquiry)
	all := b.Subscribe(ctx)

	b.Publish(TopicCustomer, ActionCreated, "c1")
	b.Publish(TopicEnquiry, ActionUpdated, "e1")

	if ev := receive(t, enquiries); ev.Topic != TopicEnquiry || ev.ID != "e1" || ev.Action != ActionUpdated {
		t.Errorf("enquiry subscriber got %+v", ev)
	}
	if ev := receive(t, all); ev.ID != "c1" {
		t.Errorf("first event for catch-all = %+v", ev)
	}
	if ev := receive(t, all); ev.ID != "e1" {
		t.Errorf("second event for catch-all = %+v", ev)
	}
}

func TestSubscriptionReleasedOnCancel(t *testing.T) {
	b := NewBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch := b.Subscribe(ctx, TopicSession)
	if b.Subscribers() != 1 {
		t.Fatalf("Subscribers = %d", b.Subscribers())
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers = %d after cancel", b.Subscribers())
	}

	// publishing after release must not panic
	b.Publish(TopicSession, ActionSignedOut, "u1")
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := NewBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Subscribe(ctx) // never read

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			b.Publish(TopicEnquiry, ActionCreated, "e")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

func TestRemotePublisher(t *testing.T) {
	remote := &recordingPublisher{err: errors.New("broker down")}
	b := NewBroker(remote)

	b.Publish(TopicEnquiry, ActionCreated, "e1")

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if len(remote.events) != 1 || remote.events[0].ID != "e1" {
		t.Errorf("remote events = %+v", remote.events)
	}
}
