package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
)

var (
	ErrSweepAlreadyRunning = errors.New("sweep already running")
	ErrSweepListFailed     = errors.New("list due periods failed")
)

type SchedulerPeriodSource interface {
	ListActiveEndingBy(cutoff time.Time) ([]models.InterventionPeriod, error)
}

type PeriodCompleter interface {
	Complete(periodID string, notes string, autoCompleted bool) (CompletionResult, error)
}

type SweepDetail struct {
	PeriodID         string
	UserID           uint
	AlreadyCompleted bool
	Err              error
}

type SweepResult struct {
	Found     int
	Completed int
	Failed    int
	Details   []SweepDetail
}

// Scheduler auto-completes active periods whose planned end date has passed.
// One sweep runs at a time per process; cross-process runs stay safe through
// the conditional completion update, just wasteful.
type Scheduler struct {
	periods  SchedulerPeriodSource
	service  PeriodCompleter
	location *time.Location
	now      func() time.Time

	mu       sync.Mutex
	sweeping bool
}

func NewScheduler(periods SchedulerPeriodSource, service PeriodCompleter, location *time.Location) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		periods:  periods,
		service:  service,
		location: location,
		now:      time.Now,
	}
}

// Sweep completes every due period in one pass. A single period failing is
// recorded in the result and the pass continues; a period another caller
// completed first counts as completed.
func (scheduler *Scheduler) Sweep() (SweepResult, error) {
	scheduler.mu.Lock()
	if scheduler.sweeping {
		scheduler.mu.Unlock()
		return SweepResult{}, ErrSweepAlreadyRunning
	}
	scheduler.sweeping = true
	scheduler.mu.Unlock()
	defer func() {
		scheduler.mu.Lock()
		scheduler.sweeping = false
		scheduler.mu.Unlock()
	}()

	today := DateAtLocation(scheduler.now(), scheduler.location)
	due, err := scheduler.periods.ListActiveEndingBy(today)
	if err != nil {
		log.Printf("scheduler: list due periods failed: %v", err)
		return SweepResult{}, ErrSweepListFailed
	}

	result := SweepResult{Found: len(due), Details: make([]SweepDetail, 0, len(due))}
	for _, period := range due {
		detail := SweepDetail{PeriodID: period.ID, UserID: period.UserID}

		completion, err := scheduler.service.Complete(period.ID, "", true)
		if err != nil {
			detail.Err = err
			result.Failed++
			log.Printf("scheduler: auto-complete period %s failed: %v", period.ID, err)
		} else {
			detail.AlreadyCompleted = completion.AlreadyCompleted
			result.Completed++
		}

		result.Details = append(result.Details, detail)
	}

	return result, nil
}

// Start runs Sweep on a fixed interval until ctx is cancelled. An interval of
// zero disables the background loop.
func (scheduler *Scheduler) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		scheduler.runOnce()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scheduler.runOnce()
			}
		}
	}()
}

func (scheduler *Scheduler) runOnce() {
	result, err := scheduler.Sweep()
	if err != nil {
		if errors.Is(err, ErrSweepAlreadyRunning) {
			return
		}
		log.Printf("scheduler: sweep failed: %v", err)
		return
	}
	if result.Found > 0 {
		log.Printf("scheduler: sweep auto-completed %d of %d due periods (%d failed)", result.Completed, result.Found, result.Failed)
	}
}
