package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-conflict-api/internal/models"
)

func newSuggestionService(bundle *stubBundle) *SuggestionService {
	return NewSuggestionService(bundle.stores(), nil, nil, nil)
}

func TestGenerateSuggestionsNilConflict(t *testing.T) {
	svc := newSuggestionService(newStubBundle())
	assert.Empty(t, svc.GenerateSuggestions(context.Background(), nil))
	assert.Nil(t, svc.GetBestSuggestion(context.Background(), nil))
}

func TestGenerateSuggestionsUnknownTypeFallsBack(t *testing.T) {
	svc := newSuggestionService(newStubBundle())
	conflict := &models.Conflict{ID: "conf-1", Type: models.ConflictTravelTimeIssue}

	suggestions := svc.GenerateSuggestions(context.Background(), conflict)
	require.Len(t, suggestions, 1)
	assert.Equal(t, models.ResolutionManualReview, suggestions[0].Type)
	assert.True(t, suggestions[0].RequiresConfirmation)
	assert.Less(t, suggestions[0].Confidence, 0.5)
}

func TestGenerateSuggestionsSortedByConfidence(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", "course-1"),
	}
	bundle.courses.courses = []models.Course{{ID: "course-1", Code: "SCI1", Subject: "Science", MaxStudents: 30}}
	bundle.rooms.rooms = []models.Room{
		{ID: "room-1", RoomNumber: "101", Capacity: 20},
		{ID: "room-2", RoomNumber: "102", Capacity: 25},
		{ID: "room-3", RoomNumber: "103", Capacity: 40},
	}
	for i := 0; i < 20; i++ {
		bundle.enrollments.enrollments = append(bundle.enrollments.enrollments, models.Enrollment{
			ID: string(rune('a' + i)), StudentID: "stu", SlotID: "slot-a", Status: models.EnrollmentStatusActive,
		})
	}
	svc := newSuggestionService(bundle)
	conflict := &models.Conflict{
		ID:              "conf-1",
		Type:            models.ConflictRoomCapacityExceeded,
		AffectedSlotIDs: []string{"slot-a"},
	}

	suggestions := svc.GenerateSuggestions(context.Background(), conflict)
	require.NotEmpty(t, suggestions)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Confidence, suggestions[i].Confidence)
	}
	// The roomier candidate carries more capacity headroom.
	assert.Equal(t, models.ResolutionChangeRoom, suggestions[0].Type)
	assert.Equal(t, "room-3", suggestions[0].Actions[0].NewRoomID)
}

func TestSuggestSlotSwapsExactlyTwoRule(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", ""),
		makeSlot("slot-b", "MONDAY", "09:30", "10:30", "teach-1", "room-2", ""),
		makeSlot("slot-c", "TUESDAY", "09:00", "10:00", "teach-1", "room-1", ""),
	}
	svc := newSuggestionService(bundle)

	two := &models.Conflict{AffectedSlotIDs: []string{"slot-a", "slot-b"}}
	swaps := svc.SuggestSlotSwaps(context.Background(), two)
	require.Len(t, swaps, 1)
	assert.Equal(t, 0.8, swaps[0].Benefit)
	assert.Equal(t, "slot-a", swaps[0].SlotAID)
	assert.Equal(t, "slot-b", swaps[0].SlotBID)

	assert.Empty(t, svc.SuggestSlotSwaps(context.Background(), nil))
	assert.Empty(t, svc.SuggestSlotSwaps(context.Background(), &models.Conflict{AffectedSlotIDs: []string{"slot-a"}}))
	assert.Empty(t, svc.SuggestSlotSwaps(context.Background(), &models.Conflict{AffectedSlotIDs: []string{"slot-a", "slot-b", "slot-c"}}))
	assert.Empty(t, svc.SuggestSlotSwaps(context.Background(), &models.Conflict{AffectedSlotIDs: []string{"slot-a", "slot-missing"}}))
}

func TestFindAlternativeTeachersFiltersAndOrders(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", "course-1"),
		makeSlot("slot-busy", "MONDAY", "09:00", "10:00", "teach-3", "room-2", "course-2"),
	}
	bundle.courses.courses = []models.Course{{ID: "course-1", Code: "SCI1", Subject: "Science"}}
	bundle.teachers.teachers = []models.Teacher{
		{ID: "teach-1", FullName: "Current", Department: "Science", Active: true},
		{ID: "teach-2", FullName: "Free Scientist", Department: "Science", Active: true},
		{ID: "teach-3", FullName: "Busy", Department: "Science", Active: true},
		{ID: "teach-4", FullName: "Historian", Department: "History", Active: true},
		{ID: "teach-5", FullName: "Retired", Department: "Science", Active: false},
	}
	svc := newSuggestionService(bundle)
	slot := bundle.slots.slots[0]

	alternatives := svc.FindAlternativeTeachers(context.Background(), &slot)
	require.Len(t, alternatives, 2)
	assert.Equal(t, "teach-2", alternatives[0].ID)
	assert.Equal(t, "teach-4", alternatives[1].ID)

	// Without a course the lookup yields nothing.
	slot.CourseID = ""
	assert.Empty(t, svc.FindAlternativeTeachers(context.Background(), &slot))
}

func TestFindAlternativeRoomsRespectsCourseNeeds(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", "course-1"),
		makeSlot("slot-busy", "MONDAY", "09:30", "10:30", "teach-2", "room-4", "course-2"),
	}
	bundle.courses.courses = []models.Course{{ID: "course-1", Code: "CHEM1", Subject: "Science", RequiresLab: true}}
	bundle.rooms.rooms = []models.Room{
		{ID: "room-1", RoomNumber: "101", RoomType: models.RoomTypeClassroom},
		{ID: "room-2", RoomNumber: "Lab A", RoomType: models.RoomTypeScienceLab, Capacity: 30},
		{ID: "room-3", RoomNumber: "201", RoomType: models.RoomTypeClassroom, Capacity: 40},
		{ID: "room-4", RoomNumber: "Lab B", RoomType: models.RoomTypeScienceLab, Capacity: 30},
	}
	svc := newSuggestionService(bundle)
	slot := bundle.slots.slots[0]

	alternatives := svc.FindAlternativeRooms(context.Background(), &slot)
	require.Len(t, alternatives, 1)
	assert.Equal(t, "room-2", alternatives[0].ID)
}

func TestFindAlternativeTimeSlotsSkipsBookedWindows(t *testing.T) {
	bundle := newStubBundle()
	bundle.slots.slots = []models.ScheduleSlot{
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", "course-1"),
		makeSlot("slot-b", "MONDAY", "10:00", "11:00", "teach-1", "room-2", "course-2"),
	}
	svc := newSuggestionService(bundle)
	slot := bundle.slots.slots[0]

	options := svc.FindAlternativeTimeSlots(context.Background(), &slot)
	require.NotEmpty(t, options)
	for _, option := range options {
		assert.False(t, option.DayOfWeek == "MONDAY" && option.StartTime == "09:00", "current placement offered")
		assert.False(t, option.DayOfWeek == "MONDAY" && option.StartTime == "10:00", "teacher-booked window offered")
	}
}

type stubAdvisory struct {
	hint string
	err  error
}

func (s *stubAdvisory) Hint(ctx context.Context, conflict *models.Conflict) (string, error) {
	return s.hint, s.err
}

func TestAdvisoryHintNeverGates(t *testing.T) {
	bundle := newStubBundle()
	failing := NewSuggestionService(bundle.stores(), &stubAdvisory{err: errors.New("down")}, nil, nil)
	conflict := &models.Conflict{ID: "conf-1", Type: models.ConflictTravelTimeIssue}

	suggestions := failing.GenerateSuggestions(context.Background(), conflict)
	require.Len(t, suggestions, 1, "heuristics still run when the advisory is down")

	hinting := NewSuggestionService(bundle.stores(), &stubAdvisory{hint: "check the gym wing"}, nil, nil)
	suggestions = hinting.GenerateSuggestions(context.Background(), conflict)
	require.Len(t, suggestions, 2)
	last := suggestions[len(suggestions)-1]
	assert.Equal(t, models.ResolutionManualReview, last.Type)
	assert.Equal(t, "check the gym wing", last.Description)
	assert.True(t, last.RequiresConfirmation)
}
