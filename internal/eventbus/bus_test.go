package eventbus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()
	b := New()

	ch, unsub := b.Subscribe(4)
	defer unsub()

	b.Publish(Event{Type: "task.retired", Data: 7})

	select {
	case e := <-ch:
		if e.Type != "task.retired" {
			t.Fatalf("Type = %s, want task.retired", e.Type)
		}
		if e.Time.IsZero() {
			t.Fatal("Time not stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	t.Parallel()
	b := New()

	ch, unsub := b.Subscribe(1)
	defer unsub()

	// Second publish must not block even though nobody is draining.
	done := make(chan struct{})
	go func() {
		b.Publish(Event{Type: "a"})
		b.Publish(Event{Type: "b"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	if e := <-ch; e.Type != "a" {
		t.Fatalf("kept event = %s, want a (oldest)", e.Type)
	}
	select {
	case e := <-ch:
		t.Fatalf("unexpected second event %s", e.Type)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	b := New()

	ch, unsub := b.Subscribe(1)
	unsub()
	unsub() // idempotent

	// Must not panic on the closed channel.
	b.Publish(Event{Type: "x"})

	if _, ok := <-ch; ok {
		t.Fatal("received on closed subscription")
	}
}
