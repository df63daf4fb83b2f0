package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Periods       *PeriodRepository
	Habits        *HabitRepository
	Tracking      *TrackingRepository
	Summaries     *SummaryRepository
	Notifications *NotificationRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Periods:       NewPeriodRepository(database),
		Habits:        NewHabitRepository(database),
		Tracking:      NewTrackingRepository(database),
		Summaries:     NewSummaryRepository(database),
		Notifications: NewNotificationRepository(database),
	}
}
