package events

import (
	"fmt"
	"log"
	"sync"
)

// Bus is a synchronous in-process event bus. Publish runs subscribers on the
// caller's goroutine in registration order and a failing handler never stops
// the remaining ones.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

func (bus *Bus) Subscribe(topic string, handler Handler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers[topic] = append(bus.subscribers[topic], handler)
}

// Publish delivers the event to every subscriber of its topic and reports one
// HandlerResult per subscriber. Handler errors and panics land in the result,
// never in a publish failure.
func (bus *Bus) Publish(event Event) []HandlerResult {
	bus.mu.RLock()
	registered := bus.subscribers[event.Topic]
	handlers := make([]Handler, len(registered))
	copy(handlers, registered)
	bus.mu.RUnlock()

	results := make([]HandlerResult, 0, len(handlers))
	for _, handler := range handlers {
		value, err := runHandler(handler, event)
		if err != nil {
			log.Printf("events: handler %s failed on %s: %v", handler.Name(), event.Topic, err)
		}
		results = append(results, HandlerResult{Handler: handler.Name(), Value: value, Err: err})
	}
	return results
}

func runHandler(handler Handler, event Event) (value any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			value = nil
			err = fmt.Errorf("handler %s panicked: %v", handler.Name(), recovered)
		}
	}()
	return handler.Handle(event)
}
