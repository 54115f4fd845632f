package models

// ResolutionType tags a suggestion with the kind of fix it proposes.
type ResolutionType string

const (
	ResolutionChangeRoom       ResolutionType = "CHANGE_ROOM"
	ResolutionChangeTimeSlot   ResolutionType = "CHANGE_TIME_SLOT"
	ResolutionChangeTeacher    ResolutionType = "CHANGE_TEACHER"
	ResolutionReassignStudent  ResolutionType = "REASSIGN_STUDENT"
	ResolutionSplitSection     ResolutionType = "SPLIT_SECTION"
	ResolutionRedistributeLoad ResolutionType = "REDISTRIBUTE_LOAD"
	ResolutionManualReview     ResolutionType = "MANUAL_REVIEW"
)

// ActionType tags a concrete mutation inside a suggestion.
type ActionType string

const (
	ActionChangeRoom      ActionType = "CHANGE_ROOM"
	ActionChangeTeacher   ActionType = "CHANGE_TEACHER"
	ActionMoveSlot        ActionType = "MOVE_SLOT"
	ActionSwapSlots       ActionType = "SWAP_SLOTS"
	ActionDeleteSlot      ActionType = "DELETE_SLOT"
	ActionReassignStudent ActionType = "REASSIGN_STUDENT"
)

// TimeSlotOption is a candidate day/time placement for a slot.
type TimeSlotOption struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ResolutionAction is one concrete mutation. Fields are populated according
// to the action type; the applier rejects unrecognised types by returning
// false rather than an error.
type ResolutionAction struct {
	Type         ActionType      `json:"type"`
	SlotID       string          `json:"slot_id,omitempty"`
	SecondSlotID string          `json:"second_slot_id,omitempty"`
	NewRoomID    string          `json:"new_room_id,omitempty"`
	NewTeacherID string          `json:"new_teacher_id,omitempty"`
	NewTime      *TimeSlotOption `json:"new_time,omitempty"`
	EnrollmentID string          `json:"enrollment_id,omitempty"`
	TargetSlotID string          `json:"target_slot_id,omitempty"`
	Reason       string          `json:"reason,omitempty"`
}

// ResolutionSuggestion is an ephemeral, confidence-scored candidate fix.
// Suggestions are recomputed on demand and never persisted.
type ResolutionSuggestion struct {
	ID                   string             `json:"id"`
	Type                 ResolutionType     `json:"type"`
	Title                string             `json:"title"`
	Description          string             `json:"description"`
	Confidence           float64            `json:"confidence"`
	RequiresConfirmation bool               `json:"requires_confirmation"`
	Actions              []ResolutionAction `json:"actions"`
}

// PrimaryAction returns the first action, or nil when the suggestion
// carries none.
func (s *ResolutionSuggestion) PrimaryAction() *ResolutionAction {
	if s == nil || len(s.Actions) == 0 {
		return nil
	}
	return &s.Actions[0]
}

// SlotSwapSuggestion proposes exchanging the time/room placement of the two
// slots involved in a pairwise conflict.
type SlotSwapSuggestion struct {
	SlotAID   string  `json:"slot_a_id"`
	SlotBID   string  `json:"slot_b_id"`
	Benefit   float64 `json:"benefit"`
	Rationale string  `json:"rationale"`
}

// ResolutionImpact summarises what applying a suggestion would touch.
type ResolutionImpact struct {
	SlotsAffected    int    `json:"slots_affected"`
	TeachersAffected int    `json:"teachers_affected"`
	StudentsAffected int    `json:"students_affected"`
	Summary          string `json:"summary"`
}

// PriorityLevel buckets a composite priority score for triage.
type PriorityLevel string

const (
	PriorityUrgent PriorityLevel = "URGENT"
	PriorityHigh   PriorityLevel = "HIGH"
	PriorityMedium PriorityLevel = "MEDIUM"
	PriorityLow    PriorityLevel = "LOW"
)

// PriorityScore is the composite urgency score for one conflict.
type PriorityScore struct {
	ConflictID string        `json:"conflict_id"`
	HardScore  int           `json:"hard_score"`
	SoftScore  int           `json:"soft_score"`
	Total      int           `json:"total"`
	Level      PriorityLevel `json:"level"`
}
