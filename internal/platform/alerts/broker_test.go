package alerts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/janisto/kyc-compliance/internal/platform/timeutil"
)

func receive(t *testing.T, ch <-chan Alert) Alert {
	t.Helper()
	select {
	case a, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return a
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for alert")
	}
	return Alert{}
}

func TestPublishFansOut(t *testing.T) {
	b := NewBroker(4)
	first, unsubFirst := b.Subscribe()
	defer unsubFirst()
	second, unsubSecond := b.Subscribe()
	defer unsubSecond()

	b.Publish(context.Background(), Alert{Kind: "profile.updated", Level: LevelSuccess, Message: "saved"})

	for _, ch := range []<-chan Alert{first, second} {
		a := receive(t, ch)
		if a.Kind != "profile.updated" || a.Message != "saved" {
			t.Fatalf("unexpected alert %+v", a)
		}
		if a.ID == "" {
			t.Fatal("expected generated id")
		}
		if a.CreatedAt.IsZero() {
			t.Fatal("expected timestamp")
		}
	}
}

func TestPublishKeepsProvidedID(t *testing.T) {
	b := NewBroker(1)
	ch, unsub := b.Subscribe()
	defer unsub()

	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	b.Publish(context.Background(), Alert{ID: "fixed", CreatedAt: timeutil.Time{Time: ts}})

	a := receive(t, ch)
	if a.ID != "fixed" || !a.CreatedAt.Equal(ts) {
		t.Fatalf("expected provided id and time, got %+v", a)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(1)
	ch, unsub := b.Subscribe()

	unsub()
	unsub()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	if n := b.Subscribers(); n != 0 {
		t.Fatalf("expected 0 subscribers, got %d", n)
	}

	b.Publish(context.Background(), Alert{Kind: "after"})
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker(1)
	slow, unsubSlow := b.Subscribe()
	defer unsubSlow()
	fast, unsubFast := b.Subscribe()
	defer unsubFast()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Publish(context.Background(), Alert{Kind: "one"})
		b.Publish(context.Background(), Alert{Kind: "two"})
	}()

	go func() {
		for range fast {
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}

	if a := receive(t, slow); a.Kind != "one" {
		t.Fatalf("expected first alert, got %q", a.Kind)
	}
	if b.Dropped() == 0 {
		t.Fatal("expected a dropped delivery")
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	b := NewBroker(1)
	ch, unsub := b.Subscribe()

	b.Close()
	b.Close()
	unsub()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after Close")
	}

	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatal("expected closed channel for subscription after Close")
	}
	b.Publish(context.Background(), Alert{Kind: "ignored"})
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	b := NewBroker(8)
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, unsub := b.Subscribe()
			defer unsub()
			for range 10 {
				b.Publish(context.Background(), Alert{Kind: "tick"})
				select {
				case <-ch:
				default:
				}
			}
		}()
	}
	wg.Wait()

	if n := b.Subscribers(); n != 0 {
		t.Fatalf("expected 0 subscribers, got %d", n)
	}
}
