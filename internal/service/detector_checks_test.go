package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/pkg/config"
)

func testDetector() *Detector {
	return NewDetector(config.DetectorConfig{
		LunchRunPeriods:     5,
		LunchMinGapMinutes:  30,
		StandardDayPeriods:  8,
		TravelBufferMinutes: 10,
	})
}

func makeSlot(id, day, start, end, teacherID, roomID, courseID string) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:         id,
		ScheduleID: "sched-1",
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
		TeacherID:  teacherID,
		RoomID:     roomID,
		CourseID:   courseID,
	}
}

func emptySnapshot(slots ...models.ScheduleSlot) *Snapshot {
	return &Snapshot{
		ScheduleID: "sched-1",
		Slots:      slots,
		Teachers:   map[string]models.Teacher{},
		Rooms:      map[string]models.Room{},
		Courses:    map[string]models.Course{},
		Students:   map[string]models.Student{},
	}
}

func TestRoomDoubleBookingReportsEachPairOnce(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "room-1", ""),
		makeSlot("slot-b", "MONDAY", "09:30", "10:30", "", "room-1", ""),
	)
	conflicts := testDetector().CheckRoomDoubleBooking(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictRoomDoubleBooking, conflicts[0].Type)
	assert.Equal(t, models.SeverityCritical, conflicts[0].Severity)
	assert.Equal(t, "Room Double-Booked", conflicts[0].Title)
	assert.ElementsMatch(t, []string{"slot-a", "slot-b"}, []string(conflicts[0].AffectedSlotIDs))
}

func TestRoomDoubleBookingIgnoresDifferentDaysAndAdjacency(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "room-1", ""),
		makeSlot("slot-b", "TUESDAY", "09:00", "10:00", "", "room-1", ""),
		// Half-open intervals: back-to-back is not an overlap.
		makeSlot("slot-c", "MONDAY", "10:00", "11:00", "", "room-1", ""),
	)
	assert.Empty(t, testDetector().CheckRoomDoubleBooking(snap))
}

func TestTeacherDoubleBooking(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "FRIDAY", "13:00", "14:00", "teach-1", "room-1", ""),
		makeSlot("slot-b", "FRIDAY", "13:30", "14:30", "teach-1", "room-2", ""),
	)
	conflicts := testDetector().CheckTeacherDoubleBooking(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTeacherOverload, conflicts[0].Type)
	assert.Equal(t, "Teacher Double-Booked", conflicts[0].Title)
	assert.Equal(t, []string{"teach-1"}, []string(conflicts[0].AffectedTeacherIDs))
}

func TestBackToBackHonoursPreferredBreak(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "", ""),
		makeSlot("slot-b", "MONDAY", "10:00", "11:00", "teach-1", "", ""),
	)
	snap.Teachers["teach-1"] = models.Teacher{ID: "teach-1", FullName: "A Teacher", PreferredBreakMinutes: 15}
	conflicts := testDetector().CheckBackToBack(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictBackToBackClasses, conflicts[0].Type)

	snap.Teachers["teach-1"] = models.Teacher{ID: "teach-1", FullName: "A Teacher", PreferredBreakMinutes: 0}
	assert.Empty(t, testDetector().CheckBackToBack(snap))
}

func TestRoomCapacityExceededSingleConflictPerSlot(t *testing.T) {
	snap := emptySnapshot(makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "room-1", ""))
	snap.Rooms["room-1"] = models.Room{ID: "room-1", RoomNumber: "101", Capacity: 20}
	for i := 0; i < 25; i++ {
		snap.Enrollments = append(snap.Enrollments, models.Enrollment{
			ID:        fmt.Sprintf("enr-%d", i),
			StudentID: fmt.Sprintf("stu-%d", i),
			SlotID:    "slot-a",
			Status:    models.EnrollmentStatusActive,
		})
	}
	conflicts := testDetector().CheckRoomCapacity(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictRoomCapacityExceeded, conflicts[0].Type)
	assert.Equal(t, "Room Capacity Exceeded", conflicts[0].Title)
	assert.Len(t, conflicts[0].AffectedStudentIDs, 25)
}

func TestRoomCapacityIgnoresInactiveEnrollments(t *testing.T) {
	snap := emptySnapshot(makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "room-1", ""))
	snap.Rooms["room-1"] = models.Room{ID: "room-1", Capacity: 1}
	snap.Enrollments = []models.Enrollment{
		{ID: "enr-1", StudentID: "stu-1", SlotID: "slot-a", Status: models.EnrollmentStatusActive},
		{ID: "enr-2", StudentID: "stu-2", SlotID: "slot-a", Status: models.EnrollmentStatusDropped},
	}
	assert.Empty(t, testDetector().CheckRoomCapacity(snap))
}

func TestExcessiveHoursOverDailyLimit(t *testing.T) {
	snap := emptySnapshot()
	snap.Teachers["teach-1"] = models.Teacher{ID: "teach-1", FullName: "A Teacher", MaxPeriodsPerDay: 5}
	for i := 0; i < 8; i++ {
		snap.Slots = append(snap.Slots, makeSlot(
			fmt.Sprintf("slot-%d", i), "MONDAY",
			fmt.Sprintf("%02d:00", 8+i), fmt.Sprintf("%02d:00", 9+i),
			"teach-1", "", ""))
	}
	conflicts := testDetector().CheckExcessiveHours(snap)
	require.NotEmpty(t, conflicts)
	assert.Equal(t, models.ConflictExcessiveHours, conflicts[0].Type)
	assert.Len(t, conflicts[0].AffectedSlotIDs, 8)
}

func TestMissingLunchBreak(t *testing.T) {
	snap := emptySnapshot()
	for i := 0; i < 5; i++ {
		snap.Slots = append(snap.Slots, makeSlot(
			fmt.Sprintf("slot-%d", i), "WEDNESDAY",
			fmt.Sprintf("%02d:00", 8+i), fmt.Sprintf("%02d:00", 9+i),
			"teach-1", "", ""))
	}
	conflicts := testDetector().CheckMissingLunchBreak(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictMissingLunchBreak, conflicts[0].Type)

	// A 60 minute hole after the third period qualifies as lunch.
	snap.Slots[3].StartTime, snap.Slots[3].EndTime = "12:00", "13:00"
	snap.Slots[4].StartTime, snap.Slots[4].EndTime = "13:00", "14:00"
	assert.Empty(t, testDetector().CheckMissingLunchBreak(snap))
}

func TestExcessiveConsecutiveRun(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "08:00", "10:00", "teach-1", "", ""),
		makeSlot("slot-b", "MONDAY", "10:00", "12:00", "teach-1", "", ""),
		makeSlot("slot-c", "MONDAY", "12:00", "13:00", "teach-1", "", ""),
	)
	snap.Teachers["teach-1"] = models.Teacher{ID: "teach-1", FullName: "A Teacher", MaxConsecutiveHours: 4}
	conflicts := testDetector().CheckExcessiveConsecutive(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictExcessiveConsecutive, conflicts[0].Type)
}

func TestMissingPrepPeriodFullDay(t *testing.T) {
	snap := emptySnapshot()
	for i := 0; i < 8; i++ {
		snap.Slots = append(snap.Slots, makeSlot(
			fmt.Sprintf("slot-%d", i), "THURSDAY",
			fmt.Sprintf("%02d:00", 8+i), fmt.Sprintf("%02d:00", 9+i),
			"teach-1", "", ""))
	}
	conflicts := testDetector().CheckMissingPrepPeriod(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictMissingPrepPeriod, conflicts[0].Type)
}

func TestRoomSuitability(t *testing.T) {
	snap := emptySnapshot(makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "room-1", "course-1"))
	snap.Rooms["room-1"] = models.Room{ID: "room-1", RoomNumber: "101", RoomType: models.RoomTypeClassroom}
	snap.Courses["course-1"] = models.Course{ID: "course-1", Code: "CHEM101", RequiresLab: true, RequiredResources: "projector"}

	conflicts := testDetector().CheckRoomSuitability(snap)
	require.Len(t, conflicts, 2)
	types := []models.ConflictType{conflicts[0].Type, conflicts[1].Type}
	assert.Contains(t, types, models.ConflictRoomTypeMismatch)
	assert.Contains(t, types, models.ConflictEquipmentUnavailable)
}

func TestSubjectMismatchIsCaseSensitive(t *testing.T) {
	snap := emptySnapshot(makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "", "course-1"))
	snap.Teachers["teach-1"] = models.Teacher{ID: "teach-1", FullName: "A Teacher", Department: "Mathematics"}
	snap.Courses["course-1"] = models.Course{ID: "course-1", Code: "MATH1", Subject: "mathematics"}

	conflicts := testDetector().CheckSubjectMismatch(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictSubjectMismatch, conflicts[0].Type)

	snap.Courses["course-1"] = models.Course{ID: "course-1", Code: "MATH1", Subject: "Mathematics"}
	assert.Empty(t, testDetector().CheckSubjectMismatch(snap))
}

func TestTravelTimeAcrossBuildings(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", ""),
		makeSlot("slot-b", "MONDAY", "10:05", "11:00", "teach-1", "room-2", ""),
	)
	snap.Rooms["room-1"] = models.Room{ID: "room-1", Building: "North"}
	snap.Rooms["room-2"] = models.Room{ID: "room-2", Building: "South"}

	conflicts := testDetector().CheckTravelTime(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTravelTimeIssue, conflicts[0].Type)

	snap.Rooms["room-2"] = models.Room{ID: "room-2", Building: "North"}
	assert.Empty(t, testDetector().CheckTravelTime(snap))
}

func TestStudentScheduleConflict(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "", "", "course-1"),
		makeSlot("slot-b", "MONDAY", "09:30", "10:30", "", "", "course-2"),
	)
	snap.Enrollments = []models.Enrollment{
		{ID: "enr-1", StudentID: "stu-1", CourseID: "course-1", SlotID: "slot-a", Status: models.EnrollmentStatusActive},
		{ID: "enr-2", StudentID: "stu-1", CourseID: "course-2", SlotID: "slot-b", Status: models.EnrollmentStatusActive},
	}
	conflicts := testDetector().CheckStudentConflicts(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictStudentSchedule, conflicts[0].Type)
	assert.Equal(t, []string{"stu-1"}, []string(conflicts[0].AffectedStudentIDs))
}

func TestDuplicateEnrollment(t *testing.T) {
	snap := emptySnapshot()
	snap.Enrollments = []models.Enrollment{
		{ID: "enr-1", StudentID: "stu-1", CourseID: "course-1", SlotID: "slot-a", Status: models.EnrollmentStatusActive},
		{ID: "enr-2", StudentID: "stu-1", CourseID: "course-1", SlotID: "slot-b", Status: models.EnrollmentStatusActive},
		{ID: "enr-3", StudentID: "stu-1", CourseID: "course-1", SlotID: "slot-c", Status: models.EnrollmentStatusDropped},
	}
	conflicts := testDetector().CheckDuplicateEnrollments(snap)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictDuplicateEnrollment, conflicts[0].Type)
}

func TestSectionEnrollmentBounds(t *testing.T) {
	snap := emptySnapshot()
	snap.Sections = []models.CourseSection{
		{ID: "sec-1", CourseID: "course-1", SectionNumber: "A", CurrentEnrollment: 35, MinEnrollment: 10, MaxEnrollment: 30},
		{ID: "sec-2", CourseID: "course-1", SectionNumber: "B", CurrentEnrollment: 4, MinEnrollment: 10, MaxEnrollment: 30},
		{ID: "sec-3", CourseID: "course-1", SectionNumber: "C", CurrentEnrollment: 20, MinEnrollment: 10, MaxEnrollment: 30},
	}
	conflicts := testDetector().CheckSectionEnrollment(snap)
	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictSectionOverEnrolled, conflicts[0].Type)
	assert.Equal(t, models.ConflictSectionUnderEnrolled, conflicts[1].Type)
}

func TestAcademicProgressChecksStayEmpty(t *testing.T) {
	snap := emptySnapshot(makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", "course-1"))
	snap.Enrollments = []models.Enrollment{
		{ID: "enr-1", StudentID: "stu-1", CourseID: "course-1", SlotID: "slot-a", Status: models.EnrollmentStatusActive},
	}
	d := testDetector()
	assert.Empty(t, d.CheckPrerequisites(snap))
	assert.Empty(t, d.CheckCreditHours(snap))
	assert.Empty(t, d.CheckGraduationRequirements(snap))
	assert.Empty(t, d.CheckCourseSequence(snap))
	assert.Empty(t, d.CheckCoRequisites(snap))
}

func TestCheckIsDeterministic(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", ""),
		makeSlot("slot-b", "MONDAY", "09:30", "10:30", "teach-1", "room-1", ""),
		makeSlot("slot-c", "TUESDAY", "09:00", "10:00", "teach-2", "room-2", ""),
	)
	d := testDetector()
	first := d.Check(snap)
	second := d.Check(snap)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, []string(first[i].AffectedSlotIDs), []string(second[i].AffectedSlotIDs))
	}
}

func TestCheckSlotSubset(t *testing.T) {
	snap := emptySnapshot(
		makeSlot("slot-a", "MONDAY", "09:00", "10:00", "teach-1", "room-1", ""),
		makeSlot("slot-b", "MONDAY", "09:30", "10:30", "teach-1", "room-1", ""),
	)
	probe := snap.Slots[1]
	conflicts := testDetector().CheckSlot(snap, &probe)
	types := make([]models.ConflictType, 0, len(conflicts))
	for _, c := range conflicts {
		types = append(types, c.Type)
	}
	assert.Contains(t, types, models.ConflictRoomDoubleBooking)
	assert.Contains(t, types, models.ConflictTeacherOverload)
}
