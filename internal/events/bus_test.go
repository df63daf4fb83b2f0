package events

import (
	"errors"
	"testing"
	"time"
)

func TestBusPublishRunsHandlersInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	calls := make([]string, 0)
	for _, name := range []string{"first", "second", "third"} {
		handlerName := name
		bus.Subscribe(TopicPeriodCompleted, HandlerFunc(handlerName, func(event Event) (any, error) {
			calls = append(calls, handlerName)
			return handlerName + "-value", nil
		}))
	}

	results := bus.Publish(Event{Topic: TopicPeriodCompleted, OccurredAt: time.Now()})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	expectedOrder := []string{"first", "second", "third"}
	for index, expected := range expectedOrder {
		if calls[index] != expected {
			t.Fatalf("expected call %d to be %s, got %s", index, expected, calls[index])
		}
		if results[index].Handler != expected {
			t.Fatalf("expected result %d from %s, got %s", index, expected, results[index].Handler)
		}
		if results[index].Err != nil {
			t.Fatalf("expected no error from %s, got %v", expected, results[index].Err)
		}
	}
}

func TestBusPublishIsolatesHandlerFailures(t *testing.T) {
	bus := NewBus()

	failure := errors.New("listener exploded")
	bus.Subscribe(TopicPeriodCompleted, HandlerFunc("failing", func(event Event) (any, error) {
		return nil, failure
	}))
	bus.Subscribe(TopicPeriodCompleted, HandlerFunc("panicking", func(event Event) (any, error) {
		panic("boom")
	}))

	survivorRan := false
	bus.Subscribe(TopicPeriodCompleted, HandlerFunc("survivor", func(event Event) (any, error) {
		survivorRan = true
		return "ok", nil
	}))

	results := bus.Publish(Event{Topic: TopicPeriodCompleted, OccurredAt: time.Now()})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !survivorRan {
		t.Fatal("expected the handler after the failures to run")
	}
	if !errors.Is(results[0].Err, failure) {
		t.Fatalf("expected first result to carry the handler error, got %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatal("expected panicking handler to surface as an error result")
	}
	if results[2].Err != nil {
		t.Fatalf("expected survivor to succeed, got %v", results[2].Err)
	}
	if results[2].Value != "ok" {
		t.Fatalf("expected survivor value ok, got %v", results[2].Value)
	}
}

func TestBusPublishWithoutSubscribersReturnsEmptyResults(t *testing.T) {
	bus := NewBus()

	results := bus.Publish(Event{Topic: TopicPeriodCompleted, OccurredAt: time.Now()})

	if results == nil {
		t.Fatal("expected non-nil result slice")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results without subscribers, got %d", len(results))
	}
}

func TestBusPublishIgnoresOtherTopics(t *testing.T) {
	bus := NewBus()

	invoked := false
	bus.Subscribe("other.topic", HandlerFunc("other", func(event Event) (any, error) {
		invoked = true
		return nil, nil
	}))

	results := bus.Publish(Event{Topic: TopicPeriodCompleted, OccurredAt: time.Now()})

	if invoked {
		t.Fatal("expected handler on a different topic to stay idle")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for an unsubscribed topic, got %d", len(results))
	}
}
