package models

import (
	"time"

	"github.com/lib/pq"
)

// ConflictType enumerates the detected violation categories.
type ConflictType string

const (
	ConflictRoomDoubleBooking    ConflictType = "ROOM_DOUBLE_BOOKING"
	ConflictTeacherOverload      ConflictType = "TEACHER_OVERLOAD"
	ConflictBackToBackClasses    ConflictType = "BACK_TO_BACK_CLASSES"
	ConflictMissingLunchBreak    ConflictType = "MISSING_LUNCH_BREAK"
	ConflictExcessiveConsecutive ConflictType = "EXCESSIVE_CONSECUTIVE_CLASSES"
	ConflictExcessiveHours       ConflictType = "EXCESSIVE_TEACHING_HOURS"
	ConflictMissingPrepPeriod    ConflictType = "MISSING_PREP_PERIOD"
	ConflictRoomCapacityExceeded ConflictType = "ROOM_CAPACITY_EXCEEDED"
	ConflictRoomTypeMismatch     ConflictType = "ROOM_TYPE_MISMATCH"
	ConflictEquipmentUnavailable ConflictType = "EQUIPMENT_UNAVAILABLE"
	ConflictSubjectMismatch      ConflictType = "SUBJECT_MISMATCH"
	ConflictTravelTimeIssue      ConflictType = "TRAVEL_TIME_ISSUE"
	ConflictStudentSchedule      ConflictType = "STUDENT_SCHEDULE_CONFLICT"
	ConflictDuplicateEnrollment  ConflictType = "DUPLICATE_ENROLLMENT"
	ConflictSectionOverEnrolled  ConflictType = "SECTION_OVER_ENROLLMENT"
	ConflictSectionUnderEnrolled ConflictType = "SECTION_UNDER_ENROLLMENT"

	// Reserved categories. Their checks are documented no-ops until the
	// transcript data they need is imported; they must keep returning empty
	// results, not best-effort guesses.
	ConflictPrerequisiteViolation ConflictType = "PREREQUISITE_VIOLATION"
	ConflictCreditHourViolation   ConflictType = "CREDIT_HOUR_VIOLATION"
	ConflictGraduationRequirement ConflictType = "GRADUATION_REQUIREMENT_ISSUE"
	ConflictCourseSequence        ConflictType = "COURSE_SEQUENCE_VIOLATION"
	ConflictCoRequisiteViolation  ConflictType = "CO_REQUISITE_VIOLATION"
)

// ConflictSeverity ranks how urgent a conflict is.
type ConflictSeverity string

const (
	SeverityCritical ConflictSeverity = "CRITICAL"
	SeverityHigh     ConflictSeverity = "HIGH"
	SeverityMedium   ConflictSeverity = "MEDIUM"
	SeverityLow      ConflictSeverity = "LOW"
	SeverityInfo     ConflictSeverity = "INFO"
)

// ConflictStatus tracks the review lifecycle of a detected conflict.
type ConflictStatus string

const (
	ConflictStatusActive   ConflictStatus = "ACTIVE"
	ConflictStatusResolved ConflictStatus = "RESOLVED"
	ConflictStatusIgnored  ConflictStatus = "IGNORED"
)

// Conflict is one detected scheduling-constraint violation. Conflicts are
// created fresh on every detection pass; re-detection over an unchanged
// schedule yields an equivalent set.
type Conflict struct {
	ID                 string           `db:"id" json:"id"`
	ScheduleID         string           `db:"schedule_id" json:"schedule_id"`
	Type               ConflictType     `db:"conflict_type" json:"conflict_type"`
	Severity           ConflictSeverity `db:"severity" json:"severity"`
	Title              string           `db:"title" json:"title"`
	Description        string           `db:"description" json:"description"`
	AffectedSlotIDs    pq.StringArray   `db:"affected_slot_ids" json:"affected_slot_ids"`
	AffectedTeacherIDs pq.StringArray   `db:"affected_teacher_ids" json:"affected_teacher_ids"`
	AffectedStudentIDs pq.StringArray   `db:"affected_student_ids" json:"affected_student_ids"`
	DetectedAt         time.Time        `db:"detected_at" json:"detected_at"`
	Status             ConflictStatus   `db:"status" json:"status"`
	ResolvedBy         string           `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt         *time.Time       `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolutionNote     string           `db:"resolution_note" json:"resolution_note,omitempty"`
}

// IsActive reports whether the conflict still needs attention.
func (c *Conflict) IsActive() bool {
	return c != nil && c.Status == ConflictStatusActive
}

// Resolve marks the conflict resolved by the given actor. RESOLVED is
// terminal for this instance.
func (c *Conflict) Resolve(user User, note string) {
	now := time.Now().UTC()
	c.Status = ConflictStatusResolved
	c.ResolvedBy = user.Username
	c.ResolvedAt = &now
	c.ResolutionNote = note
}

// Ignore parks an active conflict without resolving it.
func (c *Conflict) Ignore(note string) {
	if c.Status != ConflictStatusActive {
		return
	}
	c.Status = ConflictStatusIgnored
	c.ResolutionNote = note
}

// Unignore returns an ignored conflict to the active set.
func (c *Conflict) Unignore() {
	if c.Status != ConflictStatusIgnored {
		return
	}
	c.Status = ConflictStatusActive
	c.ResolutionNote = ""
}

// AffectedEntityCount is the total number of referenced entities, used by
// priority scoring and cascade estimation.
func (c *Conflict) AffectedEntityCount() int {
	if c == nil {
		return 0
	}
	return len(c.AffectedSlotIDs) + len(c.AffectedTeacherIDs) + len(c.AffectedStudentIDs)
}

// ValidationResult tallies a detection pass by severity.
type ValidationResult struct {
	Conflicts     []Conflict `json:"conflicts"`
	CriticalCount int        `json:"critical_count"`
	HighCount     int        `json:"high_count"`
	MediumCount   int        `json:"medium_count"`
	LowCount      int        `json:"low_count"`
	InfoCount     int        `json:"info_count"`
}

// Tally recomputes the severity counters from the conflict list.
func (v *ValidationResult) Tally() {
	v.CriticalCount, v.HighCount, v.MediumCount, v.LowCount, v.InfoCount = 0, 0, 0, 0, 0
	for _, c := range v.Conflicts {
		switch c.Severity {
		case SeverityCritical:
			v.CriticalCount++
		case SeverityHigh:
			v.HighCount++
		case SeverityMedium:
			v.MediumCount++
		case SeverityLow:
			v.LowCount++
		case SeverityInfo:
			v.InfoCount++
		}
	}
}
