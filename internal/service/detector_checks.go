package service

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/pkg/config"
)

// Snapshot is the in-memory state one detection pass runs over. It is
// fetched once per call; nothing in it is cached across calls.
type Snapshot struct {
	ScheduleID  string
	Slots       []models.ScheduleSlot
	Enrollments []models.Enrollment
	Sections    []models.CourseSection
	Teachers    map[string]models.Teacher
	Rooms       map[string]models.Room
	Courses     map[string]models.Course
	Students    map[string]models.Student
}

// EnrollmentsBySlot groups the snapshot's ACTIVE enrollments by slot ID.
func (s *Snapshot) EnrollmentsBySlot() map[string][]models.Enrollment {
	grouped := make(map[string][]models.Enrollment)
	for _, e := range s.Enrollments {
		if e.IsActive() && e.SlotID != "" {
			grouped[e.SlotID] = append(grouped[e.SlotID], e)
		}
	}
	return grouped
}

// Detector holds the pure per-category checks. Each check skips entities
// with missing or dangling references instead of failing.
type Detector struct {
	cfg config.DetectorConfig
}

// NewDetector constructs a detector with the given thresholds.
func NewDetector(cfg config.DetectorConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Check runs every category over the snapshot. Iteration order is sorted so
// re-detection over an unchanged snapshot yields the same conflict sequence.
func (d *Detector) Check(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	conflicts = append(conflicts, d.CheckRoomDoubleBooking(snap)...)
	conflicts = append(conflicts, d.CheckTeacherDoubleBooking(snap)...)
	conflicts = append(conflicts, d.CheckBackToBack(snap)...)
	conflicts = append(conflicts, d.CheckMissingLunchBreak(snap)...)
	conflicts = append(conflicts, d.CheckExcessiveConsecutive(snap)...)
	conflicts = append(conflicts, d.CheckExcessiveHours(snap)...)
	conflicts = append(conflicts, d.CheckMissingPrepPeriod(snap)...)
	conflicts = append(conflicts, d.CheckRoomCapacity(snap)...)
	conflicts = append(conflicts, d.CheckRoomSuitability(snap)...)
	conflicts = append(conflicts, d.CheckSubjectMismatch(snap)...)
	conflicts = append(conflicts, d.CheckTravelTime(snap)...)
	conflicts = append(conflicts, d.CheckStudentConflicts(snap)...)
	conflicts = append(conflicts, d.CheckDuplicateEnrollments(snap)...)
	conflicts = append(conflicts, d.CheckSectionEnrollment(snap)...)
	conflicts = append(conflicts, d.CheckPrerequisites(snap)...)
	conflicts = append(conflicts, d.CheckCreditHours(snap)...)
	conflicts = append(conflicts, d.CheckGraduationRequirements(snap)...)
	conflicts = append(conflicts, d.CheckCourseSequence(snap)...)
	conflicts = append(conflicts, d.CheckCoRequisites(snap)...)
	return conflicts
}

// CheckSlot runs the subset of categories relevant to a single slot:
// room/teacher double-booking against the rest of the snapshot, capacity
// and room suitability.
func (d *Detector) CheckSlot(snap *Snapshot, slot *models.ScheduleSlot) []models.Conflict {
	conflicts := []models.Conflict{}
	if slot == nil {
		return conflicts
	}
	for i := range snap.Slots {
		other := &snap.Slots[i]
		if other.ID == slot.ID || !slot.Overlaps(other) {
			continue
		}
		if slot.RoomID != "" && slot.RoomID == other.RoomID {
			conflicts = append(conflicts, d.roomPairConflict(snap.ScheduleID, slot, other))
		}
		if slot.TeacherID != "" && slot.TeacherID == other.TeacherID {
			conflicts = append(conflicts, d.teacherPairConflict(snap.ScheduleID, slot, other))
		}
	}
	bySlot := snap.EnrollmentsBySlot()
	conflicts = append(conflicts, d.capacityConflicts(snap, slot, bySlot[slot.ID])...)
	conflicts = append(conflicts, d.suitabilityConflicts(snap, slot)...)
	return conflicts
}

func newConflict(scheduleID string, t models.ConflictType, severity models.ConflictSeverity, title, description string) models.Conflict {
	return models.Conflict{
		ScheduleID:  scheduleID,
		Type:        t,
		Severity:    severity,
		Title:       title,
		Description: description,
		Status:      models.ConflictStatusActive,
	}
}

func sortSlots(slots []models.ScheduleSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		aStart, _, _ := a.Interval()
		bStart, _, _ := b.Interval()
		if aStart != bStart {
			return aStart < bStart
		}
		return a.ID < b.ID
	})
}

func sortedKeys(groups map[string][]models.ScheduleSlot) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func groupSlots(slots []models.ScheduleSlot, key func(*models.ScheduleSlot) string) map[string][]models.ScheduleSlot {
	grouped := make(map[string][]models.ScheduleSlot)
	for i := range slots {
		if _, _, ok := slots[i].Interval(); !ok {
			continue
		}
		if k := key(&slots[i]); k != "" {
			grouped[k] = append(grouped[k], slots[i])
		}
	}
	for k := range grouped {
		sortSlots(grouped[k])
	}
	return grouped
}

func (d *Detector) roomPairConflict(scheduleID string, a, b *models.ScheduleSlot) models.Conflict {
	c := newConflict(scheduleID, models.ConflictRoomDoubleBooking, models.SeverityCritical,
		"Room Double-Booked",
		fmt.Sprintf("Room %s hosts two overlapping classes on %s (%s-%s and %s-%s)",
			a.RoomID, a.DayOfWeek, a.StartTime, a.EndTime, b.StartTime, b.EndTime))
	c.AffectedSlotIDs = []string{a.ID, b.ID}
	return c
}

func (d *Detector) teacherPairConflict(scheduleID string, a, b *models.ScheduleSlot) models.Conflict {
	c := newConflict(scheduleID, models.ConflictTeacherOverload, models.SeverityCritical,
		"Teacher Double-Booked",
		fmt.Sprintf("Teacher %s is assigned two overlapping classes on %s (%s-%s and %s-%s)",
			a.TeacherID, a.DayOfWeek, a.StartTime, a.EndTime, b.StartTime, b.EndTime))
	c.AffectedSlotIDs = []string{a.ID, b.ID}
	c.AffectedTeacherIDs = []string{a.TeacherID}
	return c
}

// CheckRoomDoubleBooking flags each unordered pair of same-day overlapping
// slots sharing a room, considered once.
func (d *Detector) CheckRoomDoubleBooking(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byRoom := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.RoomID })
	for _, roomID := range sortedKeys(byRoom) {
		slots := byRoom[roomID]
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots); j++ {
				if slots[i].Overlaps(&slots[j]) {
					conflicts = append(conflicts, d.roomPairConflict(snap.ScheduleID, &slots[i], &slots[j]))
				}
			}
		}
	}
	return conflicts
}

// CheckTeacherDoubleBooking flags overlapping same-day slot pairs sharing a
// teacher.
func (d *Detector) CheckTeacherDoubleBooking(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byTeacher := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.TeacherID })
	for _, teacherID := range sortedKeys(byTeacher) {
		slots := byTeacher[teacherID]
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots); j++ {
				if slots[i].Overlaps(&slots[j]) {
					conflicts = append(conflicts, d.teacherPairConflict(snap.ScheduleID, &slots[i], &slots[j]))
				}
			}
		}
	}
	return conflicts
}

// slotsByDay splits an already-sorted slot list per day of week.
func slotsByDay(slots []models.ScheduleSlot) map[string][]models.ScheduleSlot {
	byDay := make(map[string][]models.ScheduleSlot)
	for _, s := range slots {
		byDay[s.DayOfWeek] = append(byDay[s.DayOfWeek], s)
	}
	return byDay
}

func sortedDayKeys(byDay map[string][]models.ScheduleSlot) []string {
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// CheckBackToBack flags consecutive same-day slots of one teacher whose gap
// is shorter than the teacher's preferred break. A zero or absent threshold
// disables the check for that teacher.
func (d *Detector) CheckBackToBack(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byTeacher := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.TeacherID })
	for _, teacherID := range sortedKeys(byTeacher) {
		teacher, ok := snap.Teachers[teacherID]
		if !ok || teacher.PreferredBreakMinutes <= 0 {
			continue
		}
		byDay := slotsByDay(byTeacher[teacherID])
		for _, day := range sortedDayKeys(byDay) {
			slots := byDay[day]
			for i := 1; i < len(slots); i++ {
				_, prevEnd, _ := slots[i-1].Interval()
				start, _, _ := slots[i].Interval()
				gap := start - prevEnd
				if gap >= 0 && gap < teacher.PreferredBreakMinutes {
					c := newConflict(snap.ScheduleID, models.ConflictBackToBackClasses, models.SeverityLow,
						"Insufficient Break Between Classes",
						fmt.Sprintf("Teacher %s has a %d minute gap on %s, below the preferred %d minutes",
							teacher.FullName, gap, day, teacher.PreferredBreakMinutes))
					c.AffectedSlotIDs = []string{slots[i-1].ID, slots[i].ID}
					c.AffectedTeacherIDs = []string{teacherID}
					conflicts = append(conflicts, c)
				}
			}
		}
	}
	return conflicts
}

// CheckMissingLunchBreak flags teachers running a long same-day stretch with
// no gap wide enough to count as lunch.
func (d *Detector) CheckMissingLunchBreak(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byTeacher := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.TeacherID })
	for _, teacherID := range sortedKeys(byTeacher) {
		byDay := slotsByDay(byTeacher[teacherID])
		for _, day := range sortedDayKeys(byDay) {
			slots := byDay[day]
			if len(slots) < d.cfg.LunchRunPeriods {
				continue
			}
			hasLunchGap := false
			for i := 1; i < len(slots); i++ {
				_, prevEnd, _ := slots[i-1].Interval()
				start, _, _ := slots[i].Interval()
				if start-prevEnd >= d.cfg.LunchMinGapMinutes {
					hasLunchGap = true
					break
				}
			}
			if hasLunchGap {
				continue
			}
			c := newConflict(snap.ScheduleID, models.ConflictMissingLunchBreak, models.SeverityHigh,
				"Missing Lunch Break",
				fmt.Sprintf("Teacher %s teaches %d periods on %s with no gap of at least %d minutes",
					teacherName(snap, teacherID), len(slots), day, d.cfg.LunchMinGapMinutes))
			c.AffectedSlotIDs = slotIDs(slots)
			c.AffectedTeacherIDs = []string{teacherID}
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

// CheckExcessiveConsecutive flags contiguous teaching runs longer than the
// teacher's max consecutive hours.
func (d *Detector) CheckExcessiveConsecutive(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byTeacher := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.TeacherID })
	for _, teacherID := range sortedKeys(byTeacher) {
		teacher, ok := snap.Teachers[teacherID]
		if !ok || teacher.MaxConsecutiveHours <= 0 {
			continue
		}
		limit := teacher.MaxConsecutiveHours * 60
		byDay := slotsByDay(byTeacher[teacherID])
		for _, day := range sortedDayKeys(byDay) {
			slots := byDay[day]
			runStart, runEnd, _ := slots[0].Interval()
			run := []models.ScheduleSlot{slots[0]}
			flush := func() {
				if runEnd-runStart > limit {
					c := newConflict(snap.ScheduleID, models.ConflictExcessiveConsecutive, models.SeverityMedium,
						"Too Many Consecutive Classes",
						fmt.Sprintf("Teacher %s teaches %d consecutive minutes on %s, above the %d hour limit",
							teacher.FullName, runEnd-runStart, day, teacher.MaxConsecutiveHours))
					c.AffectedSlotIDs = slotIDs(run)
					c.AffectedTeacherIDs = []string{teacherID}
					conflicts = append(conflicts, c)
				}
			}
			for i := 1; i < len(slots); i++ {
				start, end, _ := slots[i].Interval()
				if start <= runEnd {
					if end > runEnd {
						runEnd = end
					}
					run = append(run, slots[i])
					continue
				}
				flush()
				runStart, runEnd = start, end
				run = []models.ScheduleSlot{slots[i]}
			}
			flush()
		}
	}
	return conflicts
}

// CheckExcessiveHours flags days where a teacher's period count exceeds
// their daily limit.
func (d *Detector) CheckExcessiveHours(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byTeacher := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.TeacherID })
	for _, teacherID := range sortedKeys(byTeacher) {
		teacher, ok := snap.Teachers[teacherID]
		if !ok || teacher.MaxPeriodsPerDay <= 0 {
			continue
		}
		byDay := slotsByDay(byTeacher[teacherID])
		for _, day := range sortedDayKeys(byDay) {
			slots := byDay[day]
			if len(slots) <= teacher.MaxPeriodsPerDay {
				continue
			}
			c := newConflict(snap.ScheduleID, models.ConflictExcessiveHours, models.SeverityHigh,
				"Excessive Teaching Hours",
				fmt.Sprintf("Teacher %s is assigned %d periods on %s, above the %d period limit",
					teacher.FullName, len(slots), day, teacher.MaxPeriodsPerDay))
			c.AffectedSlotIDs = slotIDs(slots)
			c.AffectedTeacherIDs = []string{teacherID}
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

// CheckMissingPrepPeriod flags teachers booked for every period of a
// standard day, leaving no preparation time.
func (d *Detector) CheckMissingPrepPeriod(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byTeacher := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.TeacherID })
	for _, teacherID := range sortedKeys(byTeacher) {
		byDay := slotsByDay(byTeacher[teacherID])
		for _, day := range sortedDayKeys(byDay) {
			slots := byDay[day]
			if len(slots) < d.cfg.StandardDayPeriods {
				continue
			}
			c := newConflict(snap.ScheduleID, models.ConflictMissingPrepPeriod, models.SeverityMedium,
				"Missing Preparation Period",
				fmt.Sprintf("Teacher %s is scheduled for all %d periods on %s with no free period",
					teacherName(snap, teacherID), len(slots), day))
			c.AffectedSlotIDs = slotIDs(slots)
			c.AffectedTeacherIDs = []string{teacherID}
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

func (d *Detector) capacityConflicts(snap *Snapshot, slot *models.ScheduleSlot, enrollments []models.Enrollment) []models.Conflict {
	if slot.RoomID == "" {
		return nil
	}
	room, ok := snap.Rooms[slot.RoomID]
	if !ok || room.Capacity <= 0 || len(enrollments) <= room.Capacity {
		return nil
	}
	c := newConflict(snap.ScheduleID, models.ConflictRoomCapacityExceeded, models.SeverityHigh,
		"Room Capacity Exceeded",
		fmt.Sprintf("Room %s holds %d students but %d are enrolled", room.RoomNumber, room.Capacity, len(enrollments)))
	c.AffectedSlotIDs = []string{slot.ID}
	students := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		students = append(students, e.StudentID)
	}
	sort.Strings(students)
	c.AffectedStudentIDs = students
	return []models.Conflict{c}
}

// CheckRoomCapacity flags slots whose ACTIVE enrollment exceeds the room's
// capacity. At most one conflict per slot.
func (d *Detector) CheckRoomCapacity(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	bySlot := snap.EnrollmentsBySlot()
	slots := append([]models.ScheduleSlot(nil), snap.Slots...)
	sortSlots(slots)
	for i := range slots {
		conflicts = append(conflicts, d.capacityConflicts(snap, &slots[i], bySlot[slots[i].ID])...)
	}
	return conflicts
}

func (d *Detector) suitabilityConflicts(snap *Snapshot, slot *models.ScheduleSlot) []models.Conflict {
	if slot.RoomID == "" || slot.CourseID == "" {
		return nil
	}
	room, okRoom := snap.Rooms[slot.RoomID]
	course, okCourse := snap.Courses[slot.CourseID]
	if !okRoom || !okCourse {
		return nil
	}
	conflicts := []models.Conflict{}
	if course.RequiresLab && !room.IsLab() {
		c := newConflict(snap.ScheduleID, models.ConflictRoomTypeMismatch, models.SeverityHigh,
			"Room Type Mismatch",
			fmt.Sprintf("Course %s requires a lab but room %s is a %s", course.Code, room.RoomNumber, room.RoomType))
		c.AffectedSlotIDs = []string{slot.ID}
		conflicts = append(conflicts, c)
	}
	for _, token := range course.ResourceTokens() {
		if room.HasResource(token) {
			continue
		}
		c := newConflict(snap.ScheduleID, models.ConflictEquipmentUnavailable, models.SeverityMedium,
			"Required Equipment Unavailable",
			fmt.Sprintf("Course %s requires %s, which room %s lacks", course.Code, token, room.RoomNumber))
		c.AffectedSlotIDs = []string{slot.ID}
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// CheckRoomSuitability flags lab-required courses placed in non-lab rooms
// and unmet required-resource tokens, one conflict per unmet token.
func (d *Detector) CheckRoomSuitability(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	slots := append([]models.ScheduleSlot(nil), snap.Slots...)
	sortSlots(slots)
	for i := range slots {
		conflicts = append(conflicts, d.suitabilityConflicts(snap, &slots[i])...)
	}
	return conflicts
}

// CheckSubjectMismatch flags slots whose teacher's department differs from
// the course subject. The comparison is exact and case sensitive.
func (d *Detector) CheckSubjectMismatch(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	slots := append([]models.ScheduleSlot(nil), snap.Slots...)
	sortSlots(slots)
	for i := range slots {
		slot := &slots[i]
		if slot.TeacherID == "" || slot.CourseID == "" {
			continue
		}
		teacher, okTeacher := snap.Teachers[slot.TeacherID]
		course, okCourse := snap.Courses[slot.CourseID]
		if !okTeacher || !okCourse || teacher.Department == "" || course.Subject == "" {
			continue
		}
		if teacher.Department == course.Subject {
			continue
		}
		c := newConflict(snap.ScheduleID, models.ConflictSubjectMismatch, models.SeverityMedium,
			"Subject Mismatch",
			fmt.Sprintf("Teacher %s (%s) is assigned course %s (%s)",
				teacher.FullName, teacher.Department, course.Code, course.Subject))
		c.AffectedSlotIDs = []string{slot.ID}
		c.AffectedTeacherIDs = []string{slot.TeacherID}
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// CheckTravelTime flags a teacher's consecutive same-day slots in different
// buildings with less than the travel buffer between them.
func (d *Detector) CheckTravelTime(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	byTeacher := groupSlots(snap.Slots, func(s *models.ScheduleSlot) string { return s.TeacherID })
	for _, teacherID := range sortedKeys(byTeacher) {
		byDay := slotsByDay(byTeacher[teacherID])
		for _, day := range sortedDayKeys(byDay) {
			slots := byDay[day]
			for i := 1; i < len(slots); i++ {
				prev, next := &slots[i-1], &slots[i]
				prevRoom, okPrev := snap.Rooms[prev.RoomID]
				nextRoom, okNext := snap.Rooms[next.RoomID]
				if !okPrev || !okNext || prevRoom.Building == "" || nextRoom.Building == "" {
					continue
				}
				if prevRoom.Building == nextRoom.Building {
					continue
				}
				_, prevEnd, _ := prev.Interval()
				start, _, _ := next.Interval()
				if start-prevEnd >= d.cfg.TravelBufferMinutes {
					continue
				}
				c := newConflict(snap.ScheduleID, models.ConflictTravelTimeIssue, models.SeverityLow,
					"Insufficient Travel Time",
					fmt.Sprintf("Teacher %s moves from building %s to %s on %s with under %d minutes",
						teacherName(snap, teacherID), prevRoom.Building, nextRoom.Building, day, d.cfg.TravelBufferMinutes))
				c.AffectedSlotIDs = []string{prev.ID, next.ID}
				c.AffectedTeacherIDs = []string{teacherID}
				conflicts = append(conflicts, c)
			}
		}
	}
	return conflicts
}

// CheckStudentConflicts flags students whose ACTIVE enrollments land on
// overlapping slots, each unordered pair once.
func (d *Detector) CheckStudentConflicts(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	slotsByID := make(map[string]*models.ScheduleSlot, len(snap.Slots))
	for i := range snap.Slots {
		slotsByID[snap.Slots[i].ID] = &snap.Slots[i]
	}
	byStudent := make(map[string][]models.Enrollment)
	for _, e := range snap.Enrollments {
		if e.IsActive() && e.StudentID != "" {
			byStudent[e.StudentID] = append(byStudent[e.StudentID], e)
		}
	}
	students := make([]string, 0, len(byStudent))
	for id := range byStudent {
		students = append(students, id)
	}
	sort.Strings(students)
	for _, studentID := range students {
		enrollments := byStudent[studentID]
		sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].SlotID < enrollments[j].SlotID })
		for i := 0; i < len(enrollments); i++ {
			for j := i + 1; j < len(enrollments); j++ {
				a, okA := slotsByID[enrollments[i].SlotID]
				b, okB := slotsByID[enrollments[j].SlotID]
				if !okA || !okB || !a.Overlaps(b) {
					continue
				}
				c := newConflict(snap.ScheduleID, models.ConflictStudentSchedule, models.SeverityHigh,
					"Student Schedule Conflict",
					fmt.Sprintf("Student %s is enrolled in overlapping classes on %s",
						studentName(snap, studentID), a.DayOfWeek))
				c.AffectedSlotIDs = []string{a.ID, b.ID}
				c.AffectedStudentIDs = []string{studentID}
				conflicts = append(conflicts, c)
			}
		}
	}
	return conflicts
}

// CheckDuplicateEnrollments flags a student ACTIVE-enrolled in the same
// course more than once.
func (d *Detector) CheckDuplicateEnrollments(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	type key struct{ student, course string }
	counts := make(map[key][]models.Enrollment)
	for _, e := range snap.Enrollments {
		if e.IsActive() && e.StudentID != "" && e.CourseID != "" {
			k := key{e.StudentID, e.CourseID}
			counts[k] = append(counts[k], e)
		}
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].student != keys[j].student {
			return keys[i].student < keys[j].student
		}
		return keys[i].course < keys[j].course
	})
	for _, k := range keys {
		enrollments := counts[k]
		if len(enrollments) < 2 {
			continue
		}
		c := newConflict(snap.ScheduleID, models.ConflictDuplicateEnrollment, models.SeverityMedium,
			"Duplicate Enrollment",
			fmt.Sprintf("Student %s is enrolled %d times in course %s",
				studentName(snap, k.student), len(enrollments), courseCode(snap, k.course)))
		ids := make([]string, 0, len(enrollments))
		for _, e := range enrollments {
			if e.SlotID != "" {
				ids = append(ids, e.SlotID)
			}
		}
		sort.Strings(ids)
		c.AffectedSlotIDs = ids
		c.AffectedStudentIDs = []string{k.student}
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// CheckSectionEnrollment flags sections above max or below min enrollment.
func (d *Detector) CheckSectionEnrollment(snap *Snapshot) []models.Conflict {
	conflicts := []models.Conflict{}
	sections := append([]models.CourseSection(nil), snap.Sections...)
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })
	for i := range sections {
		section := &sections[i]
		if section.OverEnrolled() {
			c := newConflict(snap.ScheduleID, models.ConflictSectionOverEnrolled, models.SeverityHigh,
				"Section Over-Enrolled",
				fmt.Sprintf("Section %s of course %s has %d students, above the %d maximum",
					section.SectionNumber, courseCode(snap, section.CourseID), section.CurrentEnrollment, section.MaxEnrollment))
			conflicts = append(conflicts, c)
		}
		if section.UnderEnrolled() {
			c := newConflict(snap.ScheduleID, models.ConflictSectionUnderEnrolled, models.SeverityLow,
				"Section Under-Enrolled",
				fmt.Sprintf("Section %s of course %s has %d students, below the %d minimum",
					section.SectionNumber, courseCode(snap, section.CourseID), section.CurrentEnrollment, section.MinEnrollment))
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

// The academic-progress categories below need transcript data the engine
// does not ingest yet. They must stay empty rather than guess.

// CheckPrerequisites is a documented no-op.
func (d *Detector) CheckPrerequisites(snap *Snapshot) []models.Conflict { return nil }

// CheckCreditHours is a documented no-op.
func (d *Detector) CheckCreditHours(snap *Snapshot) []models.Conflict { return nil }

// CheckGraduationRequirements is a documented no-op.
func (d *Detector) CheckGraduationRequirements(snap *Snapshot) []models.Conflict { return nil }

// CheckCourseSequence is a documented no-op.
func (d *Detector) CheckCourseSequence(snap *Snapshot) []models.Conflict { return nil }

// CheckCoRequisites is a documented no-op.
func (d *Detector) CheckCoRequisites(snap *Snapshot) []models.Conflict { return nil }

func slotIDs(slots []models.ScheduleSlot) []string {
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

func teacherName(snap *Snapshot, id string) string {
	if t, ok := snap.Teachers[id]; ok && t.FullName != "" {
		return t.FullName
	}
	return id
}

func studentName(snap *Snapshot, id string) string {
	if s, ok := snap.Students[id]; ok && s.FullName != "" {
		return s.FullName
	}
	return id
}

func courseCode(snap *Snapshot, id string) string {
	if c, ok := snap.Courses[id]; ok && c.Code != "" {
		return c.Code
	}
	return id
}
