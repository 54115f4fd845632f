package models

import "time"

// Teacher carries roster identity plus the workload limits the detector
// enforces. Zero-valued limits disable the corresponding check.
type Teacher struct {
	ID                    string    `db:"id" json:"id"`
	FullName              string    `db:"full_name" json:"full_name"`
	Department            string    `db:"department" json:"department"`
	Active                bool      `db:"active" json:"active"`
	MaxPeriodsPerDay      int       `db:"max_periods_per_day" json:"max_periods_per_day"`
	MaxConsecutiveHours   int       `db:"max_consecutive_hours" json:"max_consecutive_hours"`
	PreferredBreakMinutes int       `db:"preferred_break_minutes" json:"preferred_break_minutes"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}
