package services

import (
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/events"
)

type PipelinePeriodRepository interface {
	PeriodRepository
	SchedulerPeriodSource
	ActivePeriodFinder
}

type PipelineHabitRepository interface {
	HabitEnroller
	HabitCompleter
}

type PipelineTrackingRepository interface {
	TrackingWriter
	AnalyticsTrackingReader
}

type PipelineDeps struct {
	Periods       PipelinePeriodRepository
	Habits        PipelineHabitRepository
	Tracking      PipelineTrackingRepository
	Summaries     CompletionSummaryWriter
	Notifications NotificationWriter
}

// CompletionPipeline bundles the bus, the listeners and the services feeding
// them. Nothing registers itself at import time; tests build a fresh pipeline
// per case.
type CompletionPipeline struct {
	Bus           *events.Bus
	Interventions *InterventionService
	Tracking      *TrackingService
	Scheduler     *Scheduler
}

func NewCompletionPipeline(deps PipelineDeps, location *time.Location) *CompletionPipeline {
	bus := events.NewBus()

	bus.Subscribe(events.TopicPeriodCompleted, NewHabitListener(deps.Periods, deps.Habits))
	bus.Subscribe(events.TopicPeriodCompleted, NewAnalyticsListener(deps.Periods, deps.Tracking, deps.Summaries, location))
	bus.Subscribe(events.TopicPeriodCompleted, NewNotificationListener(deps.Notifications))

	interventions := NewInterventionService(deps.Periods, deps.Habits, bus, location)
	tracking := NewTrackingService(deps.Tracking, deps.Periods, location)
	scheduler := NewScheduler(deps.Periods, interventions, location)

	return &CompletionPipeline{
		Bus:           bus,
		Interventions: interventions,
		Tracking:      tracking,
		Scheduler:     scheduler,
	}
}
