package events

import "time"

const TopicPeriodCompleted = "period.completed"

// Event is what publishers hand to the bus. Payload stays small; listeners
// re-read whatever they need from storage.
type Event struct {
	Topic      string
	OccurredAt time.Time
	Payload    any
}

// PeriodCompletedPayload travels with TopicPeriodCompleted events.
type PeriodCompletedPayload struct {
	PeriodID         string
	UserID           uint
	InterventionName string
	Notes            string
	AutoCompleted    bool
	CompletedAt      time.Time
}

type Handler interface {
	Name() string
	Handle(event Event) (any, error)
}

// HandlerResult records one handler's outcome for a published event.
type HandlerResult struct {
	Handler string
	Value   any
	Err     error
}

type namedHandlerFunc struct {
	name string
	fn   func(Event) (any, error)
}

func (handler namedHandlerFunc) Name() string { return handler.name }

func (handler namedHandlerFunc) Handle(event Event) (any, error) { return handler.fn(event) }

// HandlerFunc adapts a plain function into a named Handler.
func HandlerFunc(name string, fn func(Event) (any, error)) Handler {
	return namedHandlerFunc{name: name, fn: fn}
}
