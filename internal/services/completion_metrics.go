package services

import (
	"sort"
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
)

const (
	streakCompletionBar = 80.0
	moodTrendMinEntries = 4
	moodTrendDelta      = 0.3
)

type CompletionMetrics struct {
	TotalDays     int      `json:"total_days"`
	TrackedDays   int      `json:"tracked_days"`
	MissedDays    int      `json:"missed_days"`
	AvgCompletion float64  `json:"avg_completion"`
	AdherenceRate float64  `json:"adherence_rate"`
	AverageMood   *float64 `json:"average_mood"`
	MoodTrend     string   `json:"mood_trend"`
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
}

// BuildCompletionMetrics derives adherence, mood and streak numbers for one
// intervention window from the user's per-day tracking rows. A day with no
// summary row counts against adherence, not as a skip.
func BuildCompletionMetrics(summaries []models.DailySummary, moods []models.DailyMoodEntry, windowStart time.Time, windowEnd time.Time) CompletionMetrics {
	metrics := CompletionMetrics{MoodTrend: models.MoodTrendStable}

	start := dateOnly(windowStart)
	end := dateOnly(windowEnd)
	totalDays := int(end.Sub(start).Hours()/24) + 1
	if totalDays < 1 {
		totalDays = 1
	}
	metrics.TotalDays = totalDays
	metrics.TrackedDays = len(summaries)

	completions := make([]float64, 0, len(summaries))
	trackedDates := make(map[string]struct{}, len(summaries))
	for _, summary := range summaries {
		completions = append(completions, summary.CompletionPct)
		trackedDates[dateOnly(summary.Date).Format("2006-01-02")] = struct{}{}
	}
	metrics.MissedDays = totalDays - len(trackedDates)
	metrics.AvgCompletion = averageFloats(completions)
	metrics.AdherenceRate = float64(metrics.TrackedDays) / float64(totalDays) * metrics.AvgCompletion

	scores := moodScoresByDate(moods)
	if len(scores) > 0 {
		average := averageInts(scores)
		metrics.AverageMood = &average
	}
	metrics.MoodTrend = moodTrend(scores)

	metrics.CurrentStreak, metrics.LongestStreak = completionStreaks(summaries)

	return metrics
}

// moodTrend compares the late half of the series against the early half. The
// 0.3 band is carried over from the historical scoring rules and must not
// drift.
func moodTrend(scores []int) string {
	if len(scores) < moodTrendMinEntries {
		return models.MoodTrendStable
	}

	half := len(scores) / 2
	firstMean := averageInts(scores[:half])
	secondMean := averageInts(scores[half:])
	difference := secondMean - firstMean

	if difference > moodTrendDelta {
		return models.MoodTrendImproved
	}
	if difference < -moodTrendDelta {
		return models.MoodTrendDeclined
	}
	return models.MoodTrendStable
}

// completionStreaks walks the summaries newest first. A day extends a run
// when its completion meets the bar and it sits on the calendar day directly
// before the previous row; a skipped calendar day ends the run.
func completionStreaks(summaries []models.DailySummary) (int, int) {
	if len(summaries) == 0 {
		return 0, 0
	}

	sorted := make([]models.DailySummary, 0, len(summaries))
	sorted = append(sorted, summaries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	current := 0
	for index, row := range sorted {
		if row.CompletionPct < streakCompletionBar {
			break
		}
		if index > 0 {
			previousDay := dateOnly(sorted[index-1].Date)
			if !sameDay(dateOnly(row.Date), previousDay.AddDate(0, 0, -1)) {
				break
			}
		}
		current++
	}

	longest := 0
	run := 0
	for index, row := range sorted {
		if row.CompletionPct < streakCompletionBar {
			run = 0
			continue
		}
		if run > 0 {
			previousDay := dateOnly(sorted[index-1].Date)
			if !sameDay(dateOnly(row.Date), previousDay.AddDate(0, 0, -1)) {
				run = 0
			}
		}
		run++
		if run > longest {
			longest = run
		}
	}

	return current, longest
}

func moodScoresByDate(moods []models.DailyMoodEntry) []int {
	if len(moods) == 0 {
		return nil
	}

	sorted := make([]models.DailyMoodEntry, 0, len(moods))
	sorted = append(sorted, moods...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	scores := make([]int, 0, len(sorted))
	for _, mood := range sorted {
		scores = append(scores, mood.Score)
	}
	return scores
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func averageFloats(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, value := range values {
		total += value
	}
	return total / float64(len(values))
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateAtLocation normalizes a timestamp to midnight in the given location.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns the half-open [start, end) bounds of the calendar day
// containing value.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}
