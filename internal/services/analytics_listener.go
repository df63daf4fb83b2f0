package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/events"
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"gorm.io/datatypes"
)

type AnalyticsTrackingReader interface {
	ListSummariesForPeriod(userID uint, periodID string, dayStart time.Time, dayEnd time.Time) ([]models.DailySummary, error)
	ListMoodsForPeriod(userID uint, periodID string, dayStart time.Time, dayEnd time.Time) ([]models.DailyMoodEntry, error)
}

type CompletionSummaryWriter interface {
	Insert(summary *models.CompletionSummary) error
}

// AnalyticsOutcome always carries the computed metrics. Persisted is false
// with a Warning when the summary row could not be stored; the numbers are
// still usable by the caller.
type AnalyticsOutcome struct {
	PeriodID  string
	Metrics   CompletionMetrics
	Persisted bool
	Warning   string
}

type AnalyticsListener struct {
	periods   ListenerPeriodReader
	tracking  AnalyticsTrackingReader
	summaries CompletionSummaryWriter
	location  *time.Location
	now       func() time.Time
}

func NewAnalyticsListener(periods ListenerPeriodReader, tracking AnalyticsTrackingReader, summaries CompletionSummaryWriter, location *time.Location) *AnalyticsListener {
	if location == nil {
		location = time.UTC
	}
	return &AnalyticsListener{
		periods:   periods,
		tracking:  tracking,
		summaries: summaries,
		location:  location,
		now:       time.Now,
	}
}

func (listener *AnalyticsListener) Name() string { return "analytics" }

func (listener *AnalyticsListener) Handle(event events.Event) (any, error) {
	payload, ok := event.Payload.(events.PeriodCompletedPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected payload type %T", event.Payload)
	}

	period, found, err := listener.periods.FindByID(payload.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("load period %s: %w", payload.PeriodID, err)
	}
	if !found {
		return nil, fmt.Errorf("period %s vanished before analytics", payload.PeriodID)
	}

	windowStart := DateAtLocation(period.StartDate, listener.location)
	windowEnd := DateAtLocation(listener.now(), listener.location)
	if period.ActualEndDate != nil {
		windowEnd = DateAtLocation(*period.ActualEndDate, listener.location)
	}

	dayEnd := windowEnd.AddDate(0, 0, 1)
	summaries, err := listener.tracking.ListSummariesForPeriod(period.UserID, period.ID, windowStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load daily summaries for period %s: %w", period.ID, err)
	}
	moods, err := listener.tracking.ListMoodsForPeriod(period.UserID, period.ID, windowStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load mood entries for period %s: %w", period.ID, err)
	}

	metrics := BuildCompletionMetrics(summaries, moods, windowStart, windowEnd)

	breakdown, err := marshalBreakdown(metrics, summaries, moods)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown for period %s: %w", period.ID, err)
	}

	record := models.CompletionSummary{
		PeriodID:      period.ID,
		UserID:        period.UserID,
		AdherenceRate: metrics.AdherenceRate,
		AverageMood:   metrics.AverageMood,
		MoodTrend:     metrics.MoodTrend,
		Breakdown:     breakdown,
	}

	outcome := AnalyticsOutcome{PeriodID: period.ID, Metrics: metrics}
	if err := listener.summaries.Insert(&record); err != nil {
		log.Printf("analytics: persist summary for period %s failed: %v", period.ID, err)
		outcome.Warning = "completion summary not stored"
		return outcome, nil
	}

	outcome.Persisted = true
	return outcome, nil
}

type breakdownDay struct {
	Date          string  `json:"date"`
	CompletionPct float64 `json:"completion_pct"`
}

type breakdownMood struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

type completionBreakdown struct {
	TotalDays     int             `json:"total_days"`
	TrackedDays   int             `json:"tracked_days"`
	MissedDays    int             `json:"missed_days"`
	AvgCompletion float64         `json:"avg_completion"`
	CurrentStreak int             `json:"current_streak"`
	LongestStreak int             `json:"longest_streak"`
	DailySeries   []breakdownDay  `json:"daily_series"`
	MoodSeries    []breakdownMood `json:"mood_series"`
}

func marshalBreakdown(metrics CompletionMetrics, summaries []models.DailySummary, moods []models.DailyMoodEntry) (datatypes.JSON, error) {
	blob := completionBreakdown{
		TotalDays:     metrics.TotalDays,
		TrackedDays:   metrics.TrackedDays,
		MissedDays:    metrics.MissedDays,
		AvgCompletion: metrics.AvgCompletion,
		CurrentStreak: metrics.CurrentStreak,
		LongestStreak: metrics.LongestStreak,
		DailySeries:   make([]breakdownDay, 0, len(summaries)),
		MoodSeries:    make([]breakdownMood, 0, len(moods)),
	}

	for _, summary := range summaries {
		blob.DailySeries = append(blob.DailySeries, breakdownDay{
			Date:          dateOnly(summary.Date).Format("2006-01-02"),
			CompletionPct: summary.CompletionPct,
		})
	}
	for _, mood := range moods {
		blob.MoodSeries = append(blob.MoodSeries, breakdownMood{
			Date:  dateOnly(mood.Date).Format("2006-01-02"),
			Score: mood.Score,
		})
	}

	encoded, err := json.Marshal(blob)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
