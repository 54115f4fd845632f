package models

import "time"

// CourseSection tracks enrollment counters per section, independent of any
// particular slot.
type CourseSection struct {
	ID                string    `db:"id" json:"id"`
	CourseID          string    `db:"course_id" json:"course_id"`
	SectionNumber     string    `db:"section_number" json:"section_number"`
	CurrentEnrollment int       `db:"current_enrollment" json:"current_enrollment"`
	MinEnrollment     int       `db:"min_enrollment" json:"min_enrollment"`
	MaxEnrollment     int       `db:"max_enrollment" json:"max_enrollment"`
	ScheduleYear      int       `db:"schedule_year" json:"schedule_year"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// OverEnrolled reports current enrollment above the section maximum.
func (s *CourseSection) OverEnrolled() bool {
	return s != nil && s.MaxEnrollment > 0 && s.CurrentEnrollment > s.MaxEnrollment
}

// UnderEnrolled reports current enrollment below the viability minimum.
func (s *CourseSection) UnderEnrolled() bool {
	return s != nil && s.MinEnrollment > 0 && s.CurrentEnrollment < s.MinEnrollment
}
