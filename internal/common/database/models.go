package database

import (
	"time"
)

// User represents a learner on the platform. Registration, credits, and
// subscription handling live in a separate service; this table only
// carries what the learning features need.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"unique;not null" json:"username"`
	Email       string     `gorm:"unique;not null" json:"email"`
	DisplayName string     `json:"display_name"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastActive  *time.Time `json:"last_active,omitempty"`
}

// PaginatedResult wraps list responses.
type PaginatedResult struct {
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
	Data       interface{} `json:"data"`
}

func (p *PaginatedResult) Calculate() {
	if p.PageSize > 0 {
		p.TotalPages = (p.Total + int64(p.PageSize) - 1) / int64(p.PageSize)
	}
}
