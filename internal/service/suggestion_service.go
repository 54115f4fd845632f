package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-conflict-api/internal/models"
)

// weekDays is the candidate-day universe for alternative placements.
var weekDays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

const (
	schoolDayStartMinute = 8 * 60
	schoolDayEndMinute   = 16 * 60
	swapBenefit          = 0.8
)

// AdvisoryClient is the optional external advisory collaborator. It may
// supplement suggestion generation but never gates it.
type AdvisoryClient interface {
	Hint(ctx context.Context, conflict *models.Conflict) (string, error)
}

type suggestionStrategy func(ctx context.Context, conflict *models.Conflict) []models.ResolutionSuggestion

// SuggestionService produces confidence-scored candidate fixes per conflict
// type. Suggestions are ephemeral; nothing here is persisted or cached.
type SuggestionService struct {
	stores     DetectorStores
	strategies map[models.ConflictType]suggestionStrategy
	advisory   AdvisoryClient
	metrics    *Metrics
	logger     *zap.Logger
}

// NewSuggestionService instantiates SuggestionService. The advisory client
// is optional; when nil only heuristic strategies run.
func NewSuggestionService(stores DetectorStores, advisory AdvisoryClient, metrics *Metrics, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SuggestionService{stores: stores, advisory: advisory, metrics: metrics, logger: logger}
	s.strategies = map[models.ConflictType]suggestionStrategy{
		models.ConflictRoomDoubleBooking:    s.suggestRoomChange,
		models.ConflictRoomCapacityExceeded: s.suggestRoomChange,
		models.ConflictTeacherOverload:      s.suggestTeacherOrTimeChange,
		models.ConflictStudentSchedule:      s.suggestStudentReassignment,
		models.ConflictSubjectMismatch:      s.suggestDepartmentTeacher,
		models.ConflictExcessiveHours:       s.suggestLoadRedistribution,
	}
	return s
}

// GenerateSuggestions dispatches on the conflict type and returns candidate
// fixes sorted by non-increasing confidence, stable on ties. A nil conflict
// yields an empty list; an unregistered type yields one generic fallback.
func (s *SuggestionService) GenerateSuggestions(ctx context.Context, conflict *models.Conflict) []models.ResolutionSuggestion {
	if conflict == nil {
		return []models.ResolutionSuggestion{}
	}
	var suggestions []models.ResolutionSuggestion
	if strategy, ok := s.strategies[conflict.Type]; ok {
		suggestions = strategy(ctx, conflict)
	} else {
		suggestions = []models.ResolutionSuggestion{s.genericSuggestion(conflict)}
	}
	if hint := s.advisoryHint(ctx, conflict); hint != nil {
		suggestions = append(suggestions, *hint)
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	s.metrics.SuggestionsGenerated(len(suggestions))
	return suggestions
}

// GetBestSuggestion returns the highest-confidence suggestion, or nil when
// the conflict yields none.
func (s *SuggestionService) GetBestSuggestion(ctx context.Context, conflict *models.Conflict) *models.ResolutionSuggestion {
	suggestions := s.GenerateSuggestions(ctx, conflict)
	if len(suggestions) == 0 {
		return nil
	}
	return &suggestions[0]
}

// SuggestSlotSwaps proposes exchanging the two slots of a pairwise
// conflict. Exactly one suggestion is produced iff the conflict references
// exactly two resolvable slots; anything else yields an empty list.
func (s *SuggestionService) SuggestSlotSwaps(ctx context.Context, conflict *models.Conflict) []models.SlotSwapSuggestion {
	if conflict == nil || len(conflict.AffectedSlotIDs) != 2 {
		return []models.SlotSwapSuggestion{}
	}
	slotA, errA := s.stores.Slots.FindByID(ctx, conflict.AffectedSlotIDs[0])
	slotB, errB := s.stores.Slots.FindByID(ctx, conflict.AffectedSlotIDs[1])
	if errA != nil || errB != nil || slotA == nil || slotB == nil {
		return []models.SlotSwapSuggestion{}
	}
	return []models.SlotSwapSuggestion{{
		SlotAID: slotA.ID,
		SlotBID: slotB.ID,
		Benefit: swapBenefit,
		Rationale: fmt.Sprintf("Swapping the %s %s-%s and %s %s-%s placements removes the overlap",
			slotA.DayOfWeek, slotA.StartTime, slotA.EndTime, slotB.DayOfWeek, slotB.StartTime, slotB.EndTime),
	}}
}

func minuteToClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// resourceFree reports whether no other slot sharing the resource overlaps
// the probe placement.
func resourceFree(slots []models.ScheduleSlot, probe *models.ScheduleSlot, shares func(*models.ScheduleSlot) bool) bool {
	for i := range slots {
		other := &slots[i]
		if other.ID == probe.ID || !shares(other) {
			continue
		}
		if probe.Overlaps(other) {
			return false
		}
	}
	return true
}

// FindAlternativeTimeSlots enumerates open day/time placements for the slot
// where both its teacher and room stay free. The slot's course must be set,
// otherwise the result is empty.
func (s *SuggestionService) FindAlternativeTimeSlots(ctx context.Context, slot *models.ScheduleSlot) []models.TimeSlotOption {
	options := []models.TimeSlotOption{}
	if slot == nil || slot.CourseID == "" {
		return options
	}
	start, end, ok := slot.Interval()
	if !ok {
		return options
	}
	duration := end - start
	slots, err := s.stores.Slots.ListBySchedule(ctx, slot.ScheduleID)
	if err != nil {
		s.logger.Warn("alternative time lookup failed", zap.Error(err))
		return options
	}
	for _, day := range weekDays {
		for candidate := schoolDayStartMinute; candidate+duration <= schoolDayEndMinute; candidate += 60 {
			if day == slot.DayOfWeek && candidate == start {
				continue
			}
			probe := *slot
			probe.DayOfWeek = day
			probe.StartTime = minuteToClock(candidate)
			probe.EndTime = minuteToClock(candidate + duration)
			if slot.TeacherID != "" && !resourceFree(slots, &probe, func(o *models.ScheduleSlot) bool { return o.TeacherID == slot.TeacherID }) {
				continue
			}
			if slot.RoomID != "" && !resourceFree(slots, &probe, func(o *models.ScheduleSlot) bool { return o.RoomID == slot.RoomID }) {
				continue
			}
			options = append(options, models.TimeSlotOption{
				DayOfWeek: day,
				StartTime: probe.StartTime,
				EndTime:   probe.EndTime,
			})
		}
	}
	return options
}

// FindAlternativeRooms lists rooms that fit the slot's course and are free
// at the slot's time, excluding the current room.
func (s *SuggestionService) FindAlternativeRooms(ctx context.Context, slot *models.ScheduleSlot) []models.Room {
	alternatives := []models.Room{}
	if slot == nil || slot.CourseID == "" {
		return alternatives
	}
	course, err := s.stores.Courses.FindByID(ctx, slot.CourseID)
	if err != nil || course == nil {
		return alternatives
	}
	rooms, err := s.stores.Rooms.List(ctx)
	if err != nil {
		s.logger.Warn("alternative room lookup failed", zap.Error(err))
		return alternatives
	}
	slots, err := s.stores.Slots.ListBySchedule(ctx, slot.ScheduleID)
	if err != nil {
		s.logger.Warn("alternative room lookup failed", zap.Error(err))
		return alternatives
	}
	enrolled := s.activeEnrollmentCount(ctx, slot.ID)
	for i := range rooms {
		room := rooms[i]
		if room.ID == "" || room.ID == slot.RoomID {
			continue
		}
		if !roomFitsCourse(&room, course, enrolled) {
			continue
		}
		probe := *slot
		probe.RoomID = room.ID
		if !resourceFree(slots, &probe, func(o *models.ScheduleSlot) bool { return o.RoomID == room.ID }) {
			continue
		}
		alternatives = append(alternatives, room)
	}
	return alternatives
}

// FindAlternativeTeachers lists active teachers free at the slot's time,
// same-department teachers first. The slot's course must be set.
func (s *SuggestionService) FindAlternativeTeachers(ctx context.Context, slot *models.ScheduleSlot) []models.Teacher {
	alternatives := []models.Teacher{}
	if slot == nil || slot.CourseID == "" {
		return alternatives
	}
	course, err := s.stores.Courses.FindByID(ctx, slot.CourseID)
	if err != nil || course == nil {
		return alternatives
	}
	teachers, err := s.stores.Teachers.ListActive(ctx)
	if err != nil {
		s.logger.Warn("alternative teacher lookup failed", zap.Error(err))
		return alternatives
	}
	slots, err := s.stores.Slots.ListBySchedule(ctx, slot.ScheduleID)
	if err != nil {
		s.logger.Warn("alternative teacher lookup failed", zap.Error(err))
		return alternatives
	}
	for i := range teachers {
		teacher := teachers[i]
		if teacher.ID == "" || teacher.ID == slot.TeacherID || !teacher.Active {
			continue
		}
		probe := *slot
		probe.TeacherID = teacher.ID
		if !resourceFree(slots, &probe, func(o *models.ScheduleSlot) bool { return o.TeacherID == teacher.ID }) {
			continue
		}
		alternatives = append(alternatives, teacher)
	}
	sort.SliceStable(alternatives, func(i, j int) bool {
		iMatch := alternatives[i].Department == course.Subject
		jMatch := alternatives[j].Department == course.Subject
		if iMatch != jMatch {
			return iMatch
		}
		return alternatives[i].FullName < alternatives[j].FullName
	})
	return alternatives
}

func roomFitsCourse(room *models.Room, course *models.Course, enrolled int) bool {
	if course.RequiresLab && !room.IsLab() {
		return false
	}
	for _, token := range course.ResourceTokens() {
		if !room.HasResource(token) {
			return false
		}
	}
	if enrolled > 0 && room.Capacity > 0 && room.Capacity < enrolled {
		return false
	}
	return true
}

func (s *SuggestionService) activeEnrollmentCount(ctx context.Context, slotID string) int {
	if slotID == "" {
		return 0
	}
	enrollments, err := s.stores.Enrollments.ListBySlot(ctx, slotID)
	if err != nil {
		return 0
	}
	count := 0
	for i := range enrollments {
		if enrollments[i].IsActive() {
			count++
		}
	}
	return count
}

func (s *SuggestionService) conflictSlot(ctx context.Context, conflict *models.Conflict) *models.ScheduleSlot {
	for _, id := range conflict.AffectedSlotIDs {
		if id == "" {
			continue
		}
		slot, err := s.stores.Slots.FindByID(ctx, id)
		if err == nil && slot != nil {
			return slot
		}
	}
	return nil
}

// suggestRoomChange proposes moving the slot into a fitting free room.
// Confidence rises with capacity headroom.
func (s *SuggestionService) suggestRoomChange(ctx context.Context, conflict *models.Conflict) []models.ResolutionSuggestion {
	suggestions := []models.ResolutionSuggestion{}
	slot := s.conflictSlot(ctx, conflict)
	if slot == nil {
		return suggestions
	}
	enrolled := s.activeEnrollmentCount(ctx, slot.ID)
	for _, room := range s.FindAlternativeRooms(ctx, slot) {
		confidence := 0.6
		if enrolled > 0 && room.Capacity > 0 {
			headroom := float64(room.Capacity-enrolled) / float64(room.Capacity)
			confidence += 0.3 * headroom
		}
		suggestions = append(suggestions, models.ResolutionSuggestion{
			ID:          uuid.NewString(),
			Type:        models.ResolutionChangeRoom,
			Title:       fmt.Sprintf("Move to room %s", room.RoomNumber),
			Description: fmt.Sprintf("Room %s (%s, capacity %d) is free at this time", room.RoomNumber, room.Building, room.Capacity),
			Confidence:  clampConfidence(confidence),
			Actions: []models.ResolutionAction{{
				Type:      models.ActionChangeRoom,
				SlotID:    slot.ID,
				NewRoomID: room.ID,
			}},
		})
	}
	return suggestions
}

// suggestTeacherOrTimeChange proposes substitute teachers and open time
// slots for a double-booked teacher.
func (s *SuggestionService) suggestTeacherOrTimeChange(ctx context.Context, conflict *models.Conflict) []models.ResolutionSuggestion {
	suggestions := []models.ResolutionSuggestion{}
	slot := s.conflictSlot(ctx, conflict)
	if slot == nil {
		return suggestions
	}
	var subject string
	if slot.CourseID != "" {
		if course, err := s.stores.Courses.FindByID(ctx, slot.CourseID); err == nil && course != nil {
			subject = course.Subject
		}
	}
	for _, teacher := range s.FindAlternativeTeachers(ctx, slot) {
		confidence := 0.55
		if subject != "" && teacher.Department == subject {
			confidence = 0.75
		}
		suggestions = append(suggestions, models.ResolutionSuggestion{
			ID:          uuid.NewString(),
			Type:        models.ResolutionChangeTeacher,
			Title:       fmt.Sprintf("Reassign to %s", teacher.FullName),
			Description: fmt.Sprintf("%s (%s) is free at this time", teacher.FullName, teacher.Department),
			Confidence:  confidence,
			Actions: []models.ResolutionAction{{
				Type:         models.ActionChangeTeacher,
				SlotID:       slot.ID,
				NewTeacherID: teacher.ID,
			}},
		})
	}
	for _, option := range s.FindAlternativeTimeSlots(ctx, slot) {
		option := option
		suggestions = append(suggestions, models.ResolutionSuggestion{
			ID:          uuid.NewString(),
			Type:        models.ResolutionChangeTimeSlot,
			Title:       fmt.Sprintf("Move to %s %s", option.DayOfWeek, option.StartTime),
			Description: fmt.Sprintf("The %s %s-%s window is open for both teacher and room", option.DayOfWeek, option.StartTime, option.EndTime),
			Confidence:  0.6,
			Actions: []models.ResolutionAction{{
				Type:    models.ActionMoveSlot,
				SlotID:  slot.ID,
				NewTime: &option,
			}},
		})
	}
	return suggestions
}

// suggestStudentReassignment proposes moving the student onto an alternate
// occurrence of the same course.
func (s *SuggestionService) suggestStudentReassignment(ctx context.Context, conflict *models.Conflict) []models.ResolutionSuggestion {
	suggestions := []models.ResolutionSuggestion{}
	if len(conflict.AffectedStudentIDs) == 0 {
		return suggestions
	}
	studentID := conflict.AffectedStudentIDs[0]
	slot := s.conflictSlot(ctx, conflict)
	if slot == nil || slot.CourseID == "" {
		return suggestions
	}
	enrollments, err := s.stores.Enrollments.ListBySlot(ctx, slot.ID)
	if err != nil {
		return suggestions
	}
	var enrollmentID string
	for _, e := range enrollments {
		if e.StudentID == studentID && e.IsActive() {
			enrollmentID = e.ID
			break
		}
	}
	if enrollmentID == "" {
		return suggestions
	}
	slots, err := s.stores.Slots.ListBySchedule(ctx, slot.ScheduleID)
	if err != nil {
		return suggestions
	}
	for i := range slots {
		alternate := slots[i]
		if alternate.ID == slot.ID || alternate.CourseID != slot.CourseID {
			continue
		}
		suggestions = append(suggestions, models.ResolutionSuggestion{
			ID:          uuid.NewString(),
			Type:        models.ResolutionReassignStudent,
			Title:       fmt.Sprintf("Move student to the %s %s section", alternate.DayOfWeek, alternate.StartTime),
			Description: fmt.Sprintf("An alternate occurrence of the course runs %s %s-%s", alternate.DayOfWeek, alternate.StartTime, alternate.EndTime),
			Confidence:  0.65,
			Actions: []models.ResolutionAction{{
				Type:         models.ActionReassignStudent,
				SlotID:       slot.ID,
				EnrollmentID: enrollmentID,
				TargetSlotID: alternate.ID,
			}},
		})
	}
	return suggestions
}

// suggestDepartmentTeacher proposes teachers from the course's department.
func (s *SuggestionService) suggestDepartmentTeacher(ctx context.Context, conflict *models.Conflict) []models.ResolutionSuggestion {
	suggestions := []models.ResolutionSuggestion{}
	slot := s.conflictSlot(ctx, conflict)
	if slot == nil || slot.CourseID == "" {
		return suggestions
	}
	course, err := s.stores.Courses.FindByID(ctx, slot.CourseID)
	if err != nil || course == nil {
		return suggestions
	}
	for _, teacher := range s.FindAlternativeTeachers(ctx, slot) {
		if teacher.Department != course.Subject {
			continue
		}
		suggestions = append(suggestions, models.ResolutionSuggestion{
			ID:          uuid.NewString(),
			Type:        models.ResolutionChangeTeacher,
			Title:       fmt.Sprintf("Assign %s from %s", teacher.FullName, teacher.Department),
			Description: fmt.Sprintf("%s teaches in the course's subject area and is free at this time", teacher.FullName),
			Confidence:  0.7,
			Actions: []models.ResolutionAction{{
				Type:         models.ActionChangeTeacher,
				SlotID:       slot.ID,
				NewTeacherID: teacher.ID,
			}},
		})
	}
	return suggestions
}

// suggestLoadRedistribution proposes spreading an overloaded teacher's day.
// Low confidence and always confirmation-required.
func (s *SuggestionService) suggestLoadRedistribution(ctx context.Context, conflict *models.Conflict) []models.ResolutionSuggestion {
	slot := s.conflictSlot(ctx, conflict)
	if slot == nil {
		return []models.ResolutionSuggestion{}
	}
	options := s.FindAlternativeTimeSlots(ctx, slot)
	if len(options) == 0 {
		return []models.ResolutionSuggestion{}
	}
	option := options[0]
	return []models.ResolutionSuggestion{{
		ID:                   uuid.NewString(),
		Type:                 models.ResolutionRedistributeLoad,
		Title:                "Redistribute teaching load",
		Description:          fmt.Sprintf("Move one period to %s %s to bring the day under the limit", option.DayOfWeek, option.StartTime),
		Confidence:           0.4,
		RequiresConfirmation: true,
		Actions: []models.ResolutionAction{{
			Type:    models.ActionMoveSlot,
			SlotID:  slot.ID,
			NewTime: &option,
		}},
	}}
}

func (s *SuggestionService) genericSuggestion(conflict *models.Conflict) models.ResolutionSuggestion {
	return models.ResolutionSuggestion{
		ID:                   uuid.NewString(),
		Type:                 models.ResolutionManualReview,
		Title:                "Manual review required",
		Description:          fmt.Sprintf("No automated strategy covers %s; review the affected slots by hand", conflict.Type),
		Confidence:           0.2,
		RequiresConfirmation: true,
	}
}

// advisoryHint asks the optional advisory collaborator for a hint. Failures
// are logged and ignored; the heuristic pipeline never waits on it.
func (s *SuggestionService) advisoryHint(ctx context.Context, conflict *models.Conflict) *models.ResolutionSuggestion {
	if s.advisory == nil {
		return nil
	}
	hint, err := s.advisory.Hint(ctx, conflict)
	if err != nil {
		s.logger.Debug("advisory hint unavailable", zap.Error(err))
		return nil
	}
	if hint == "" {
		return nil
	}
	return &models.ResolutionSuggestion{
		ID:                   uuid.NewString(),
		Type:                 models.ResolutionManualReview,
		Title:                "Advisory note",
		Description:          hint,
		Confidence:           0.1,
		RequiresConfirmation: true,
	}
}

func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
