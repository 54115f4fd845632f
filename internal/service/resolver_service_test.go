package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/pkg/config"
)

var testUser = models.User{ID: "user-1", Username: "registrar", FullName: "The Registrar"}

func newResolverService(bundle *stubBundle) *ResolverService {
	stores := bundle.stores()
	detector := NewDetectorService(stores, testDetector(), nil, nil)
	suggester := NewSuggestionService(stores, nil, nil, nil)
	return NewResolverService(stores, detector, suggester, config.ResolverConfig{AutoApplyMinConfidence: 0.8}, nil, nil)
}

func TestCanAutoApplyGates(t *testing.T) {
	svc := newResolverService(newStubBundle())

	assert.False(t, svc.CanAutoApply(nil))
	assert.False(t, svc.CanAutoApply(&models.ResolutionSuggestion{Confidence: 0.99, RequiresConfirmation: true}))
	assert.False(t, svc.CanAutoApply(&models.ResolutionSuggestion{Confidence: 0.79}))
	assert.True(t, svc.CanAutoApply(&models.ResolutionSuggestion{Confidence: 0.8}))
	assert.True(t, svc.CanAutoApply(&models.ResolutionSuggestion{Confidence: 0.95}))
}

func TestMoveSlotRejectsInvalidTime(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "", "")}
	svc := newResolverService(bundle)

	assert.False(t, svc.MoveSlot(context.Background(), "slot-a", models.TimeSlotOption{StartTime: "9 o'clock", EndTime: "10:00"}, testUser))
	assert.False(t, svc.MoveSlot(context.Background(), "slot-a", models.TimeSlotOption{StartTime: "10:00", EndTime: "09:00"}, testUser))
	assert.Empty(t, bundle.slots.saved)

	require.True(t, svc.MoveSlot(context.Background(), "slot-a", models.TimeSlotOption{DayOfWeek: "TUESDAY", StartTime: "11:00", EndTime: "12:00"}, testUser))
	require.Len(t, bundle.slots.saved, 1)
	assert.Equal(t, "TUESDAY", bundle.slots.saved[0].DayOfWeek)
	assert.Equal(t, "11:00", bundle.slots.saved[0].StartTime)
}

func TestApplyResolutionNilAndUnknownInputs(t *testing.T) {
	svc := newResolverService(newStubBundle())
	conflict := &models.Conflict{ID: "conf-1", Status: models.ConflictStatusActive}

	assert.False(t, svc.ApplyResolution(context.Background(), nil, &models.ResolutionSuggestion{}, testUser))
	assert.False(t, svc.ApplyResolution(context.Background(), conflict, nil, testUser))
	assert.False(t, svc.ApplyResolution(context.Background(), conflict, &models.ResolutionSuggestion{}, testUser))
	assert.False(t, svc.ApplyResolution(context.Background(), conflict, &models.ResolutionSuggestion{
		Actions: []models.ResolutionAction{{Type: models.ActionType("TELEPORT")}},
	}, testUser))
	assert.Equal(t, models.ConflictStatusActive, conflict.Status)
}

func TestApplyResolutionChangeRoomResolvesConflict(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "room-1", "")}
	svc := newResolverService(bundle)
	conflict := &models.Conflict{ID: "conf-1", ScheduleID: "sched-1", Status: models.ConflictStatusActive}
	suggestion := &models.ResolutionSuggestion{
		Title: "Move to room 102",
		Type:  models.ResolutionChangeRoom,
		Actions: []models.ResolutionAction{{
			Type: models.ActionChangeRoom, SlotID: "slot-a", NewRoomID: "room-2",
		}},
	}

	require.True(t, svc.ApplyResolution(context.Background(), conflict, suggestion, testUser))
	assert.Equal(t, models.ConflictStatusResolved, conflict.Status)
	assert.Equal(t, "registrar", conflict.ResolvedBy)
	require.Len(t, bundle.slots.saved, 1)
	assert.Equal(t, "room-2", bundle.slots.saved[0].RoomID)
	require.Len(t, bundle.conflicts.saved, 1)
	assert.Equal(t, models.ConflictStatusResolved, bundle.conflicts.saved[0].Status)
}

func TestSwapSlotsExchangesPlacement(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", ""),
		makeSlot("slot-b", "TUESDAY", "13:00", "14:00", "teach-2", "room-2", ""),
	}
	svc := newResolverService(bundle)

	require.True(t, svc.SwapSlots(context.Background(), "slot-a", "slot-b", testUser))
	slotA, err := bundle.slots.FindByID(context.Background(), "slot-a")
	require.NoError(t, err)
	assert.Equal(t, "TUESDAY", slotA.DayOfWeek)
	assert.Equal(t, "13:00", slotA.StartTime)
	assert.Equal(t, "room-2", slotA.RoomID)
	assert.Equal(t, "teach-1", slotA.TeacherID, "teachers keep their classes")

	assert.False(t, svc.SwapSlots(context.Background(), "slot-a", "slot-a", testUser))
	assert.False(t, svc.SwapSlots(context.Background(), "slot-a", "slot-missing", testUser))
}

func TestAutoResolveAllEmptyScheduleIsZero(t *testing.T) {
	svc := newResolverService(newStubBundle())
	assert.Equal(t, 0, svc.AutoResolveAll(context.Background(), "", testUser))
	assert.Equal(t, 0, svc.AutoResolveAll(context.Background(), "   ", testUser))
}

func TestAutoResolveSkipsLowConfidenceAndInactive(t *testing.T) {
	bundle := newStubBundle()
	// Travel-time conflicts only get the generic low-confidence fallback, so
	// nothing qualifies for auto-apply.
	bundle.conflicts.conflicts = []models.Conflict{
		{ID: "conf-1", ScheduleID: "sched-1", Type: models.ConflictTravelTimeIssue, Status: models.ConflictStatusActive},
		{ID: "conf-2", ScheduleID: "sched-1", Type: models.ConflictTravelTimeIssue, Status: models.ConflictStatusIgnored},
	}
	svc := newResolverService(bundle)

	assert.Equal(t, 0, svc.AutoResolveAll(context.Background(), "sched-1", testUser))
	for _, c := range bundle.conflicts.conflicts {
		assert.NotEqual(t, models.ConflictStatusResolved, c.Status)
	}
}

func TestAutoResolveAppliesQualifyingSuggestion(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", "course-1"),
	}
	bundle.courses.courses = []models.Course{{ID: "course-1", Code: "SCI1", Subject: "Science"}}
	// A huge empty room gives the change-room strategy confidence at the
	// auto-apply threshold.
	bundle.rooms.rooms = []models.Room{
		{ID: "room-1", RoomNumber: "101", Capacity: 10},
		{ID: "room-2", RoomNumber: "AUD", Capacity: 200},
	}
	bundle.enrollments.enrollments = []models.Enrollment{
		{ID: "enr-1", StudentID: "stu-1", SlotID: "slot-a", Status: models.EnrollmentStatusActive},
	}
	conflict := models.Conflict{
		ID: "conf-1", ScheduleID: "sched-1",
		Type:            models.ConflictRoomCapacityExceeded,
		Status:          models.ConflictStatusActive,
		AffectedSlotIDs: []string{"slot-a"},
	}
	bundle.conflicts.conflicts = []models.Conflict{conflict}
	svc := newResolverService(bundle)

	resolved := svc.AutoResolveAll(context.Background(), "sched-1", testUser)
	assert.Equal(t, 1, resolved)
	stored, err := bundle.conflicts.FindByID(context.Background(), "conf-1")
	require.NoError(t, err)
	assert.Equal(t, models.ConflictStatusResolved, stored.Status)
}

func TestValidateResolutionUsesHypotheticalState(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", ""),
		makeSlot("slot-b", "MONDAY", "11:00", "12:00", "teach-2", "room-2", ""),
	}
	svc := newResolverService(bundle)
	slot := bundle.slots.slots[0]

	// Moving onto the other teacher's window creates an overlap.
	conflicts, err := svc.ValidateResolution(context.Background(), &slot,
		&models.TimeSlotOption{StartTime: "11:00", EndTime: "12:00"}, "", "teach-2")
	require.NoError(t, err)
	assert.NotEmpty(t, conflicts)

	// Keeping the current time (nil candidate) stays clean.
	conflicts, err = svc.ValidateResolution(context.Background(), &slot, nil, "room-3", "")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestAnalyzeImpact(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", "")}
	bundle.enrollments.enrollments = []models.Enrollment{
		{ID: "enr-1", StudentID: "stu-1", SlotID: "slot-a", Status: models.EnrollmentStatusActive},
		{ID: "enr-2", StudentID: "stu-2", SlotID: "slot-a", Status: models.EnrollmentStatusDropped},
	}
	svc := newResolverService(bundle)

	empty := svc.AnalyzeImpact(context.Background(), &models.ResolutionSuggestion{})
	assert.Equal(t, 0, empty.SlotsAffected)

	impact := svc.AnalyzeImpact(context.Background(), &models.ResolutionSuggestion{
		Title:   "Move to room 102",
		Actions: []models.ResolutionAction{{Type: models.ActionChangeRoom, SlotID: "slot-a", NewRoomID: "room-2"}},
	})
	assert.Equal(t, 1, impact.SlotsAffected)
	assert.Equal(t, 1, impact.TeachersAffected)
	assert.Equal(t, 1, impact.StudentsAffected)
}

func TestAdministrativeTransitions(t *testing.T) {
	bundle := newStubBundle()
	bundle.conflicts.conflicts = []models.Conflict{
		{ID: "conf-1", ScheduleID: "sched-1", Status: models.ConflictStatusActive},
	}
	svc := newResolverService(bundle)
	ctx := context.Background()

	require.NoError(t, svc.MarkIgnored(ctx, "conf-1", "known quirk"))
	stored, err := bundle.conflicts.FindByID(ctx, "conf-1")
	require.NoError(t, err)
	assert.Equal(t, models.ConflictStatusIgnored, stored.Status)

	require.NoError(t, svc.Unignore(ctx, "conf-1"))
	stored, err = bundle.conflicts.FindByID(ctx, "conf-1")
	require.NoError(t, err)
	assert.Equal(t, models.ConflictStatusActive, stored.Status)

	require.NoError(t, svc.MarkResolved(ctx, "conf-1", testUser, "fixed by hand"))
	stored, err = bundle.conflicts.FindByID(ctx, "conf-1")
	require.NoError(t, err)
	assert.Equal(t, models.ConflictStatusResolved, stored.Status)
	assert.Equal(t, "registrar", stored.ResolvedBy)

	assert.Error(t, svc.MarkResolved(ctx, "missing", testUser, ""))
}
