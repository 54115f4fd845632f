package service

import (
	"context"
	"errors"

	"github.com/noah-isme/sma-conflict-api/internal/models"
)

var errStubNotFound = errors.New("not found")

type stubSlotRepo struct {
	slots   []models.ScheduleSlot
	saved   []models.ScheduleSlot
	deleted []string
}

func (s *stubSlotRepo) List(ctx context.Context) ([]models.ScheduleSlot, error) {
	return s.slots, nil
}

func (s *stubSlotRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleSlot, error) {
	out := []models.ScheduleSlot{}
	for _, slot := range s.slots {
		if slot.ScheduleID == scheduleID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *stubSlotRepo) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	for i := range s.slots {
		if s.slots[i].ID == id {
			slot := s.slots[i]
			return &slot, nil
		}
	}
	return nil, errStubNotFound
}

func (s *stubSlotRepo) Save(ctx context.Context, slot *models.ScheduleSlot) error {
	s.saved = append(s.saved, *slot)
	for i := range s.slots {
		if s.slots[i].ID == slot.ID {
			s.slots[i] = *slot
			return nil
		}
	}
	s.slots = append(s.slots, *slot)
	return nil
}

func (s *stubSlotRepo) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	kept := s.slots[:0]
	for _, slot := range s.slots {
		if slot.ID != id {
			kept = append(kept, slot)
		}
	}
	s.slots = kept
	return nil
}

type stubEnrollmentRepo struct {
	enrollments []models.Enrollment
	reassigned  map[string]string
}

func (s *stubEnrollmentRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]models.Enrollment, error) {
	return s.enrollments, nil
}

func (s *stubEnrollmentRepo) ListBySlot(ctx context.Context, slotID string) ([]models.Enrollment, error) {
	out := []models.Enrollment{}
	for _, e := range s.enrollments {
		if e.SlotID == slotID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEnrollmentRepo) UpdateSlot(ctx context.Context, enrollmentID, slotID string) error {
	if s.reassigned == nil {
		s.reassigned = map[string]string{}
	}
	s.reassigned[enrollmentID] = slotID
	return nil
}

type stubSectionRepo struct {
	sections []models.CourseSection
}

func (s *stubSectionRepo) List(ctx context.Context) ([]models.CourseSection, error) {
	return s.sections, nil
}

type stubTeacherRepo struct {
	teachers []models.Teacher
}

func (s *stubTeacherRepo) List(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

func (s *stubTeacherRepo) ListActive(ctx context.Context) ([]models.Teacher, error) {
	out := []models.Teacher{}
	for _, t := range s.teachers {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	for i := range s.teachers {
		if s.teachers[i].ID == id {
			teacher := s.teachers[i]
			return &teacher, nil
		}
	}
	return nil, errStubNotFound
}

type stubRoomRepo struct {
	rooms []models.Room
}

func (s *stubRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

func (s *stubRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			room := s.rooms[i]
			return &room, nil
		}
	}
	return nil, errStubNotFound
}

type stubCourseRepo struct {
	courses []models.Course
}

func (s *stubCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	return s.courses, nil
}

func (s *stubCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	for i := range s.courses {
		if s.courses[i].ID == id {
			course := s.courses[i]
			return &course, nil
		}
	}
	return nil, errStubNotFound
}

type stubStudentRepo struct {
	students []models.Student
}

func (s *stubStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	return s.students, nil
}

type stubConflictRepo struct {
	conflicts []models.Conflict
	saved     []models.Conflict
	cleared   []string
}

func (s *stubConflictRepo) ListActiveBySchedule(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	out := []models.Conflict{}
	for _, c := range s.conflicts {
		if c.ScheduleID == scheduleID && c.Status == models.ConflictStatusActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubConflictRepo) ListByScheduleAndType(ctx context.Context, scheduleID string, conflictType models.ConflictType) ([]models.Conflict, error) {
	out := []models.Conflict{}
	for _, c := range s.conflicts {
		if c.ScheduleID == scheduleID && c.Type == conflictType && c.Status == models.ConflictStatusActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubConflictRepo) FindByID(ctx context.Context, id string) (*models.Conflict, error) {
	for i := range s.conflicts {
		if s.conflicts[i].ID == id {
			conflict := s.conflicts[i]
			return &conflict, nil
		}
	}
	return nil, errStubNotFound
}

func (s *stubConflictRepo) Save(ctx context.Context, conflict *models.Conflict) error {
	s.saved = append(s.saved, *conflict)
	for i := range s.conflicts {
		if s.conflicts[i].ID == conflict.ID {
			s.conflicts[i] = *conflict
			return nil
		}
	}
	s.conflicts = append(s.conflicts, *conflict)
	return nil
}

func (s *stubConflictRepo) SaveAll(ctx context.Context, conflicts []models.Conflict) error {
	for i := range conflicts {
		if err := s.Save(ctx, &conflicts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubConflictRepo) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	s.cleared = append(s.cleared, scheduleID)
	kept := s.conflicts[:0]
	for _, c := range s.conflicts {
		if c.ScheduleID != scheduleID {
			kept = append(kept, c)
		}
	}
	s.conflicts = kept
	return nil
}

func (s *stubConflictRepo) CountActiveBySchedule(ctx context.Context, scheduleID string) (int, error) {
	active, _ := s.ListActiveBySchedule(ctx, scheduleID)
	return len(active), nil
}

// stubBundle wires empty stubs for every collaborator so each test only
// fills what it needs.
type stubBundle struct {
	slots       *stubSlotRepo
	enrollments *stubEnrollmentRepo
	sections    *stubSectionRepo
	teachers    *stubTeacherRepo
	rooms       *stubRoomRepo
	courses     *stubCourseRepo
	students    *stubStudentRepo
	conflicts   *stubConflictRepo
}

func newStubBundle() *stubBundle {
	return &stubBundle{
		slots:       &stubSlotRepo{},
		enrollments: &stubEnrollmentRepo{},
		sections:    &stubSectionRepo{},
		teachers:    &stubTeacherRepo{},
		rooms:       &stubRoomRepo{},
		courses:     &stubCourseRepo{},
		students:    &stubStudentRepo{},
		conflicts:   &stubConflictRepo{},
	}
}

func (b *stubBundle) stores() DetectorStores {
	return DetectorStores{
		Slots:       b.slots,
		Enrollments: b.enrollments,
		Sections:    b.sections,
		Teachers:    b.teachers,
		Rooms:       b.rooms,
		Courses:     b.courses,
		Students:    b.students,
		Conflicts:   b.conflicts,
	}
}
