package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/pkg/config"
	appErrors "github.com/noah-isme/sma-conflict-api/pkg/errors"
)

// ResolverService executes chosen suggestions and owns the auto-resolution
// policy. Application failures are reported as a boolean so batch callers
// can count successes without unwinding; only storage lookups for the
// administrative transitions return errors.
type ResolverService struct {
	stores        DetectorStores
	detector      *DetectorService
	suggester     *SuggestionService
	metrics       *Metrics
	logger        *zap.Logger
	minConfidence float64
}

// NewResolverService instantiates ResolverService.
func NewResolverService(stores DetectorStores, detector *DetectorService, suggester *SuggestionService, cfg config.ResolverConfig, metrics *Metrics, logger *zap.Logger) *ResolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolverService{
		stores:        stores,
		detector:      detector,
		suggester:     suggester,
		metrics:       metrics,
		logger:        logger,
		minConfidence: cfg.AutoApplyMinConfidence,
	}
}

// ApplyResolution executes a suggestion's primary action and marks the
// conflict resolved by the acting user. Returns false, not an error, for
// nil inputs, unrecognised actions and failed mutations.
func (s *ResolverService) ApplyResolution(ctx context.Context, conflict *models.Conflict, suggestion *models.ResolutionSuggestion, user models.User) bool {
	return s.applyResolution(ctx, conflict, suggestion, user, false)
}

func (s *ResolverService) applyResolution(ctx context.Context, conflict *models.Conflict, suggestion *models.ResolutionSuggestion, user models.User, auto bool) bool {
	if conflict == nil || suggestion == nil {
		return false
	}
	action := suggestion.PrimaryAction()
	if action == nil {
		return false
	}
	if !s.applyAction(ctx, action, user) {
		return false
	}
	conflict.Resolve(user, suggestion.Title)
	if err := s.stores.Conflicts.Save(ctx, conflict); err != nil {
		s.logger.Error("failed to persist resolved conflict",
			zap.String("conflict_id", conflict.ID), zap.Error(err))
		return false
	}
	s.metrics.ResolutionApplied(auto)
	s.logger.Info("resolution applied",
		zap.String("conflict_id", conflict.ID),
		zap.String("suggestion_type", string(suggestion.Type)),
		zap.Bool("auto", auto),
		zap.String("user", user.Username))
	return true
}

func (s *ResolverService) applyAction(ctx context.Context, action *models.ResolutionAction, user models.User) bool {
	switch action.Type {
	case models.ActionMoveSlot:
		if action.NewTime == nil {
			return false
		}
		return s.MoveSlot(ctx, action.SlotID, *action.NewTime, user)
	case models.ActionChangeRoom:
		return s.ChangeRoom(ctx, action.SlotID, action.NewRoomID, user)
	case models.ActionChangeTeacher:
		return s.ChangeTeacher(ctx, action.SlotID, action.NewTeacherID, user)
	case models.ActionSwapSlots:
		return s.SwapSlots(ctx, action.SlotID, action.SecondSlotID, user)
	case models.ActionDeleteSlot:
		return s.DeleteSlot(ctx, action.SlotID, user)
	case models.ActionReassignStudent:
		return s.reassignStudent(ctx, action.EnrollmentID, action.TargetSlotID, user)
	default:
		return false
	}
}

// MoveSlot places a slot on a new day and time. A structurally invalid time
// returns false rather than an error.
func (s *ResolverService) MoveSlot(ctx context.Context, slotID string, newTime models.TimeSlotOption, user models.User) bool {
	start, err := models.MinuteOfDay(newTime.StartTime)
	if err != nil {
		return false
	}
	end, err := models.MinuteOfDay(newTime.EndTime)
	if err != nil || end <= start {
		return false
	}
	slot, err := s.stores.Slots.FindByID(ctx, slotID)
	if err != nil || slot == nil {
		return false
	}
	if newTime.DayOfWeek != "" {
		slot.DayOfWeek = newTime.DayOfWeek
	}
	slot.StartTime = newTime.StartTime
	slot.EndTime = newTime.EndTime
	if err := s.stores.Slots.Save(ctx, slot); err != nil {
		s.logger.Error("move slot failed", zap.String("slot_id", slotID), zap.Error(err))
		return false
	}
	s.logger.Info("slot moved", zap.String("slot_id", slotID),
		zap.String("day", slot.DayOfWeek), zap.String("start", slot.StartTime),
		zap.String("user", user.Username))
	return true
}

// ChangeRoom reassigns a slot to another room.
func (s *ResolverService) ChangeRoom(ctx context.Context, slotID, newRoomID string, user models.User) bool {
	if newRoomID == "" {
		return false
	}
	slot, err := s.stores.Slots.FindByID(ctx, slotID)
	if err != nil || slot == nil {
		return false
	}
	slot.RoomID = newRoomID
	if err := s.stores.Slots.Save(ctx, slot); err != nil {
		s.logger.Error("change room failed", zap.String("slot_id", slotID), zap.Error(err))
		return false
	}
	s.logger.Info("slot room changed", zap.String("slot_id", slotID),
		zap.String("room_id", newRoomID), zap.String("user", user.Username))
	return true
}

// ChangeTeacher reassigns a slot to another teacher.
func (s *ResolverService) ChangeTeacher(ctx context.Context, slotID, newTeacherID string, user models.User) bool {
	if newTeacherID == "" {
		return false
	}
	slot, err := s.stores.Slots.FindByID(ctx, slotID)
	if err != nil || slot == nil {
		return false
	}
	slot.TeacherID = newTeacherID
	if err := s.stores.Slots.Save(ctx, slot); err != nil {
		s.logger.Error("change teacher failed", zap.String("slot_id", slotID), zap.Error(err))
		return false
	}
	s.logger.Info("slot teacher changed", zap.String("slot_id", slotID),
		zap.String("teacher_id", newTeacherID), zap.String("user", user.Username))
	return true
}

// SwapSlots exchanges the day/time/room placement of two slots.
func (s *ResolverService) SwapSlots(ctx context.Context, slotAID, slotBID string, user models.User) bool {
	if slotAID == "" || slotBID == "" || slotAID == slotBID {
		return false
	}
	slotA, err := s.stores.Slots.FindByID(ctx, slotAID)
	if err != nil || slotA == nil {
		return false
	}
	slotB, err := s.stores.Slots.FindByID(ctx, slotBID)
	if err != nil || slotB == nil {
		return false
	}
	slotA.DayOfWeek, slotB.DayOfWeek = slotB.DayOfWeek, slotA.DayOfWeek
	slotA.StartTime, slotB.StartTime = slotB.StartTime, slotA.StartTime
	slotA.EndTime, slotB.EndTime = slotB.EndTime, slotA.EndTime
	slotA.PeriodNumber, slotB.PeriodNumber = slotB.PeriodNumber, slotA.PeriodNumber
	slotA.RoomID, slotB.RoomID = slotB.RoomID, slotA.RoomID
	if err := s.stores.Slots.Save(ctx, slotA); err != nil {
		s.logger.Error("swap slots failed", zap.String("slot_id", slotAID), zap.Error(err))
		return false
	}
	if err := s.stores.Slots.Save(ctx, slotB); err != nil {
		s.logger.Error("swap slots failed", zap.String("slot_id", slotBID), zap.Error(err))
		return false
	}
	s.logger.Info("slots swapped", zap.String("slot_a", slotAID),
		zap.String("slot_b", slotBID), zap.String("user", user.Username))
	return true
}

// DeleteSlot removes a slot from the schedule.
func (s *ResolverService) DeleteSlot(ctx context.Context, slotID string, user models.User) bool {
	if slotID == "" {
		return false
	}
	if err := s.stores.Slots.Delete(ctx, slotID); err != nil {
		s.logger.Error("delete slot failed", zap.String("slot_id", slotID), zap.Error(err))
		return false
	}
	s.logger.Info("slot deleted", zap.String("slot_id", slotID), zap.String("user", user.Username))
	return true
}

func (s *ResolverService) reassignStudent(ctx context.Context, enrollmentID, targetSlotID string, user models.User) bool {
	if enrollmentID == "" || targetSlotID == "" {
		return false
	}
	if err := s.stores.Enrollments.UpdateSlot(ctx, enrollmentID, targetSlotID); err != nil {
		s.logger.Error("reassign student failed", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		return false
	}
	s.logger.Info("student reassigned", zap.String("enrollment_id", enrollmentID),
		zap.String("target_slot_id", targetSlotID), zap.String("user", user.Username))
	return true
}

// CanAutoApply reports whether a suggestion may apply without human
// confirmation: never for nil or confirmation-required suggestions,
// otherwise gated on the confidence threshold.
func (s *ResolverService) CanAutoApply(suggestion *models.ResolutionSuggestion) bool {
	if suggestion == nil || suggestion.RequiresConfirmation {
		return false
	}
	return suggestion.Confidence >= s.minConfidence
}

// AutoResolve generates suggestions for the conflict and applies the best
// one if policy allows. Returns false when nothing qualifies.
func (s *ResolverService) AutoResolve(ctx context.Context, conflict *models.Conflict, user models.User) bool {
	if conflict == nil || !conflict.IsActive() {
		return false
	}
	best := s.suggester.GetBestSuggestion(ctx, conflict)
	if !s.CanAutoApply(best) {
		return false
	}
	return s.applyResolution(ctx, conflict, best, user, true)
}

// AutoResolveAll walks the schedule's active conflicts strictly in sequence
// so each decision reflects prior mutations, and counts successes. An empty
// schedule id yields 0.
func (s *ResolverService) AutoResolveAll(ctx context.Context, scheduleID string, user models.User) int {
	return s.autoResolveFiltered(ctx, scheduleID, "", user)
}

// AutoResolveByType restricts AutoResolveAll to one conflict category.
func (s *ResolverService) AutoResolveByType(ctx context.Context, scheduleID string, conflictType models.ConflictType, user models.User) int {
	if conflictType == "" {
		return 0
	}
	return s.autoResolveFiltered(ctx, scheduleID, conflictType, user)
}

func (s *ResolverService) autoResolveFiltered(ctx context.Context, scheduleID string, conflictType models.ConflictType, user models.User) int {
	if strings.TrimSpace(scheduleID) == "" {
		return 0
	}
	var conflicts []models.Conflict
	var err error
	if conflictType == "" {
		conflicts, err = s.stores.Conflicts.ListActiveBySchedule(ctx, scheduleID)
	} else {
		conflicts, err = s.stores.Conflicts.ListByScheduleAndType(ctx, scheduleID, conflictType)
	}
	if err != nil {
		s.logger.Error("auto-resolve listing failed", zap.String("schedule_id", scheduleID), zap.Error(err))
		return 0
	}
	resolved := 0
	for i := range conflicts {
		conflict := &conflicts[i]
		if !conflict.IsActive() {
			continue
		}
		if s.AutoResolve(ctx, conflict, user) {
			resolved++
		}
	}
	s.logger.Info("auto-resolve pass complete",
		zap.String("schedule_id", scheduleID),
		zap.Int("candidates", len(conflicts)),
		zap.Int("resolved", resolved),
		zap.String("user", user.Username))
	return resolved
}

// ValidateResolution re-runs slot-level detection against the hypothetical
// post-change state before anything is committed. A nil candidate time
// keeps the slot's current time.
func (s *ResolverService) ValidateResolution(ctx context.Context, slot *models.ScheduleSlot, newTime *models.TimeSlotOption, newRoomID, newTeacherID string) ([]models.Conflict, error) {
	if slot == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "slot is required")
	}
	candidate := *slot
	if newTime != nil {
		if newTime.DayOfWeek != "" {
			candidate.DayOfWeek = newTime.DayOfWeek
		}
		candidate.StartTime = newTime.StartTime
		candidate.EndTime = newTime.EndTime
	}
	if newRoomID != "" {
		candidate.RoomID = newRoomID
	}
	if newTeacherID != "" {
		candidate.TeacherID = newTeacherID
	}
	return s.detector.DetectPotentialConflicts(ctx, slot.ScheduleID, &candidate)
}

// AnalyzeImpact summarises what applying a suggestion would touch. A nil
// suggestion or action yields a zero impact.
func (s *ResolverService) AnalyzeImpact(ctx context.Context, suggestion *models.ResolutionSuggestion) models.ResolutionImpact {
	action := suggestion.PrimaryAction()
	if action == nil {
		return models.ResolutionImpact{Summary: "no action to apply"}
	}
	impact := models.ResolutionImpact{}
	slotIDs := map[string]bool{}
	for _, id := range []string{action.SlotID, action.SecondSlotID, action.TargetSlotID} {
		if id != "" {
			slotIDs[id] = true
		}
	}
	impact.SlotsAffected = len(slotIDs)
	teacherIDs := map[string]bool{}
	if action.NewTeacherID != "" {
		teacherIDs[action.NewTeacherID] = true
	}
	studentIDs := map[string]bool{}
	for id := range slotIDs {
		slot, err := s.stores.Slots.FindByID(ctx, id)
		if err != nil || slot == nil {
			continue
		}
		if slot.TeacherID != "" {
			teacherIDs[slot.TeacherID] = true
		}
		enrollments, err := s.stores.Enrollments.ListBySlot(ctx, id)
		if err != nil {
			continue
		}
		for _, e := range enrollments {
			if e.IsActive() {
				studentIDs[e.StudentID] = true
			}
		}
	}
	impact.TeachersAffected = len(teacherIDs)
	impact.StudentsAffected = len(studentIDs)
	impact.Summary = suggestion.Title
	return impact
}

// MarkResolved closes a conflict administratively, outside the
// generate/apply pipeline.
func (s *ResolverService) MarkResolved(ctx context.Context, conflictID string, user models.User, note string) error {
	conflict, err := s.stores.Conflicts.FindByID(ctx, conflictID)
	if err != nil || conflict == nil {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "unknown conflict id")
	}
	conflict.Resolve(user, note)
	if err := s.stores.Conflicts.Save(ctx, conflict); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save conflict")
	}
	return nil
}

// MarkIgnored parks an active conflict.
func (s *ResolverService) MarkIgnored(ctx context.Context, conflictID, note string) error {
	conflict, err := s.stores.Conflicts.FindByID(ctx, conflictID)
	if err != nil || conflict == nil {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "unknown conflict id")
	}
	conflict.Ignore(note)
	if err := s.stores.Conflicts.Save(ctx, conflict); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save conflict")
	}
	return nil
}

// Unignore returns an ignored conflict to the active set.
func (s *ResolverService) Unignore(ctx context.Context, conflictID string) error {
	conflict, err := s.stores.Conflicts.FindByID(ctx, conflictID)
	if err != nil || conflict == nil {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "unknown conflict id")
	}
	conflict.Unignore()
	if err := s.stores.Conflicts.Save(ctx, conflict); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save conflict")
	}
	return nil
}
