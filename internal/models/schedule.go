package models

import (
	"strings"
	"time"
)

// Schedule is a named timetable (one term) that slots belong to.
type Schedule struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Year      int       `db:"year" json:"year"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleSlot is one scheduled occurrence of a course: a day, a half-open
// [start,end) clock interval and optional teacher/room/course references.
// Slots are mutated only by the resolution applier.
type ScheduleSlot struct {
	ID           string    `db:"id" json:"id"`
	ScheduleID   string    `db:"schedule_id" json:"schedule_id"`
	DayOfWeek    string    `db:"day_of_week" json:"day_of_week"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	PeriodNumber int       `db:"period_number" json:"period_number"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id,omitempty"`
	RoomID       string    `db:"room_id" json:"room_id,omitempty"`
	CourseID     string    `db:"course_id" json:"course_id,omitempty"`
	LunchWave    int       `db:"lunch_wave" json:"lunch_wave,omitempty"`
	IsLunchSlot  bool      `db:"is_lunch_slot" json:"is_lunch_slot,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// MinuteOfDay parses an HH:MM clock value into minutes since midnight.
func MinuteOfDay(value string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Interval returns the slot's [start,end) interval in minutes since
// midnight. ok is false when either bound is missing or malformed, or the
// interval is empty; checks skip such slots instead of failing.
func (s *ScheduleSlot) Interval() (start, end int, ok bool) {
	if s == nil {
		return 0, 0, false
	}
	start, err := MinuteOfDay(s.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err = MinuteOfDay(s.EndTime)
	if err != nil {
		return 0, 0, false
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// Overlaps reports whether two slots fall on the same day with intersecting
// [start,end) intervals. The relation is symmetric and irreflexive on
// distinct non-degenerate slots.
func (s *ScheduleSlot) Overlaps(other *ScheduleSlot) bool {
	if s == nil || other == nil || s.DayOfWeek != other.DayOfWeek {
		return false
	}
	aStart, aEnd, ok := s.Interval()
	if !ok {
		return false
	}
	bStart, bEnd, ok := other.Interval()
	if !ok {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}
