package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/events"
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"github.com/google/uuid"
)

var (
	ErrPeriodNotFound     = errors.New("intervention period not found")
	ErrPeriodLoadFailed   = errors.New("load intervention period failed")
	ErrPeriodWriteFailed  = errors.New("intervention period write failed")
	ErrInvalidPeriodInput = errors.New("invalid intervention period input")
)

// AutoCompletedNotes is stored verbatim when the scheduler closes a period
// that carries no caller notes. Downstream consumers match on this string.
const AutoCompletedNotes = "Auto-completed: period expired"

type PeriodRepository interface {
	Create(period *models.InterventionPeriod) error
	FindByID(periodID string) (models.InterventionPeriod, bool, error)
	ListByUser(userID uint, status string) ([]models.InterventionPeriod, error)
	CompleteIfStatus(periodID string, expectedStatus string, completedAt time.Time, notes string) (int64, error)
}

type HabitEnroller interface {
	EnsureActive(userID uint, name string) error
}

type EventPublisher interface {
	Publish(event events.Event) []events.HandlerResult
}

type StartPeriodInput struct {
	InterventionName string
	Habits           []string
	StartDate        time.Time
	PlannedEndDate   time.Time
	Notes            string
}

// CompletionResult reports one Complete call. ListenerResults carry the
// per-listener outcomes for observability; a failed listener never fails the
// call itself.
type CompletionResult struct {
	PeriodID         string
	AlreadyCompleted bool
	AutoCompleted    bool
	CompletedAt      time.Time
	ListenerResults  []events.HandlerResult
}

type InterventionService struct {
	periods  PeriodRepository
	habits   HabitEnroller
	bus      EventPublisher
	location *time.Location
	now      func() time.Time
}

func NewInterventionService(periods PeriodRepository, habits HabitEnroller, bus EventPublisher, location *time.Location) *InterventionService {
	if location == nil {
		location = time.UTC
	}
	return &InterventionService{
		periods:  periods,
		habits:   habits,
		bus:      bus,
		location: location,
		now:      time.Now,
	}
}

// Start enrolls the user in a named intervention and makes sure an active
// UserHabit row exists per selected habit. Habit enrollment is best-effort;
// the period itself is the source of truth for the selection.
func (service *InterventionService) Start(userID uint, input StartPeriodInput) (models.InterventionPeriod, error) {
	name := strings.TrimSpace(input.InterventionName)
	if name == "" {
		return models.InterventionPeriod{}, ErrInvalidPeriodInput
	}

	startDay := DateAtLocation(input.StartDate, service.location)
	endDay := DateAtLocation(input.PlannedEndDate, service.location)
	if endDay.Before(startDay) {
		return models.InterventionPeriod{}, ErrInvalidPeriodInput
	}

	habits := normalizeHabitNames(input.Habits)
	period := models.InterventionPeriod{
		ID:               uuid.NewString(),
		UserID:           userID,
		InterventionName: name,
		SelectedHabits:   habits,
		StartDate:        startDay,
		PlannedEndDate:   endDay,
		Status:           models.PeriodStatusActive,
		Notes:            strings.TrimSpace(input.Notes),
	}
	if err := service.periods.Create(&period); err != nil {
		return models.InterventionPeriod{}, ErrPeriodWriteFailed
	}

	for _, habit := range habits {
		if err := service.habits.EnsureActive(userID, habit); err != nil {
			log.Printf("interventions: enroll habit %q for user %d failed: %v", habit, userID, err)
		}
	}

	return period, nil
}

func (service *InterventionService) Get(periodID string, userID uint) (models.InterventionPeriod, error) {
	period, found, err := service.periods.FindByID(periodID)
	if err != nil {
		return models.InterventionPeriod{}, ErrPeriodLoadFailed
	}
	if !found || period.UserID != userID {
		return models.InterventionPeriod{}, ErrPeriodNotFound
	}
	return period, nil
}

func (service *InterventionService) ListForUser(userID uint, status string) ([]models.InterventionPeriod, error) {
	return service.periods.ListByUser(userID, status)
}

// Complete transitions a period to completed and fans the transition out to
// the subscribed listeners. Calling it twice is safe: the second call reports
// AlreadyCompleted and publishes nothing.
func (service *InterventionService) Complete(periodID string, notes string, autoCompleted bool) (CompletionResult, error) {
	period, found, err := service.periods.FindByID(periodID)
	if err != nil {
		return CompletionResult{}, ErrPeriodLoadFailed
	}
	if !found {
		return CompletionResult{}, ErrPeriodNotFound
	}

	if period.Status == models.PeriodStatusCompleted {
		return CompletionResult{PeriodID: period.ID, AlreadyCompleted: true}, nil
	}

	completedAt := service.now().In(service.location)
	finalNotes := strings.TrimSpace(notes)
	if finalNotes == "" {
		if autoCompleted {
			finalNotes = AutoCompletedNotes
		} else {
			finalNotes = period.Notes
		}
	}

	// The update is keyed on the status observed above. When a concurrent
	// caller moved the row first, zero rows match and no event fires here.
	affected, err := service.periods.CompleteIfStatus(period.ID, period.Status, completedAt, finalNotes)
	if err != nil {
		return CompletionResult{}, ErrPeriodWriteFailed
	}
	if affected == 0 {
		return CompletionResult{PeriodID: period.ID, AlreadyCompleted: true}, nil
	}

	results := service.bus.Publish(events.Event{
		Topic:      events.TopicPeriodCompleted,
		OccurredAt: completedAt,
		Payload: events.PeriodCompletedPayload{
			PeriodID:         period.ID,
			UserID:           period.UserID,
			InterventionName: period.InterventionName,
			Notes:            finalNotes,
			AutoCompleted:    autoCompleted,
			CompletedAt:      completedAt,
		},
	})

	return CompletionResult{
		PeriodID:        period.ID,
		AutoCompleted:   autoCompleted,
		CompletedAt:     completedAt,
		ListenerResults: results,
	}, nil
}

func normalizeHabitNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
