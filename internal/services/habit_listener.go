package services

import (
	"fmt"
	"log"

	"github.com/VerenaSchrama/Decode-sub000/internal/events"
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
)

type ListenerPeriodReader interface {
	FindByID(periodID string) (models.InterventionPeriod, bool, error)
}

type HabitCompleter interface {
	CompleteActiveByName(userID uint, name string) (int64, error)
}

// HabitUpdateOutcome counts how many of the period's selected habits were
// flipped to completed.
type HabitUpdateOutcome struct {
	Total   int
	Updated int
	Failed  int
	Message string
}

type HabitListener struct {
	periods ListenerPeriodReader
	habits  HabitCompleter
}

func NewHabitListener(periods ListenerPeriodReader, habits HabitCompleter) *HabitListener {
	return &HabitListener{periods: periods, habits: habits}
}

func (listener *HabitListener) Name() string { return "habits" }

// Handle re-reads the period so the habit list is authoritative at dispatch
// time, then updates each matching active habit independently. One failing
// update is logged and counted, never blocking the rest.
func (listener *HabitListener) Handle(event events.Event) (any, error) {
	payload, ok := event.Payload.(events.PeriodCompletedPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected payload type %T", event.Payload)
	}

	period, found, err := listener.periods.FindByID(payload.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("load period %s: %w", payload.PeriodID, err)
	}
	if !found {
		return nil, fmt.Errorf("period %s vanished before habit update", payload.PeriodID)
	}

	if len(period.SelectedHabits) == 0 {
		return HabitUpdateOutcome{Message: "no habits to update"}, nil
	}

	outcome := HabitUpdateOutcome{Total: len(period.SelectedHabits)}
	for _, habit := range period.SelectedHabits {
		affected, err := listener.habits.CompleteActiveByName(period.UserID, habit)
		if err != nil {
			outcome.Failed++
			log.Printf("habits: complete %q for user %d failed: %v", habit, period.UserID, err)
			continue
		}
		if affected > 0 {
			outcome.Updated++
		}
	}
	outcome.Message = fmt.Sprintf("updated %d of %d habits", outcome.Updated, outcome.Total)
	return outcome, nil
}
