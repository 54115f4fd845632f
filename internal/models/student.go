package models

import "time"

// EnrollmentStatus enumerates enrollment lifecycle states. Only ACTIVE
// enrollments count toward conflicts and capacity.
type EnrollmentStatus string

const (
	EnrollmentStatusActive     EnrollmentStatus = "ACTIVE"
	EnrollmentStatusDropped    EnrollmentStatus = "DROPPED"
	EnrollmentStatusCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentStatusWaitlisted EnrollmentStatus = "WAITLISTED"
)

// Student is a roster entry referenced by enrollments.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	GradeYear int       `db:"grade_year" json:"grade_year"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Enrollment links a student to a course occurrence (slot).
type Enrollment struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	CourseID  string           `db:"course_id" json:"course_id"`
	SlotID    string           `db:"slot_id" json:"slot_id"`
	Status    EnrollmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the enrollment counts toward conflicts.
func (e *Enrollment) IsActive() bool {
	return e != nil && e.Status == EnrollmentStatusActive
}
