package models

import "time"

// ReviewReminder is the latest stale-review snapshot for one user,
// refreshed by the daily job.
type ReviewReminder struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	DueCount    int       `json:"due_count"`
	GeneratedAt time.Time `json:"generated_at"`
}
