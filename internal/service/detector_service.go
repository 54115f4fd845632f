package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	appErrors "github.com/noah-isme/sma-conflict-api/pkg/errors"
)

type slotRepository interface {
	List(ctx context.Context) ([]models.ScheduleSlot, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	Save(ctx context.Context, slot *models.ScheduleSlot) error
	Delete(ctx context.Context, id string) error
}

type enrollmentRepository interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.Enrollment, error)
	ListBySlot(ctx context.Context, slotID string) ([]models.Enrollment, error)
	UpdateSlot(ctx context.Context, enrollmentID, slotID string) error
}

type sectionRepository interface {
	List(ctx context.Context) ([]models.CourseSection, error)
}

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	ListActive(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
}

type conflictRepository interface {
	ListActiveBySchedule(ctx context.Context, scheduleID string) ([]models.Conflict, error)
	ListByScheduleAndType(ctx context.Context, scheduleID string, conflictType models.ConflictType) ([]models.Conflict, error)
	FindByID(ctx context.Context, id string) (*models.Conflict, error)
	Save(ctx context.Context, conflict *models.Conflict) error
	SaveAll(ctx context.Context, conflicts []models.Conflict) error
	DeleteBySchedule(ctx context.Context, scheduleID string) error
	CountActiveBySchedule(ctx context.Context, scheduleID string) (int, error)
}

// DetectorStores bundles the read-side collaborators the aggregator needs.
type DetectorStores struct {
	Slots       slotRepository
	Enrollments enrollmentRepository
	Sections    sectionRepository
	Teachers    teacherRepository
	Rooms       roomRepository
	Courses     courseRepository
	Students    studentRepository
	Conflicts   conflictRepository
}

// DetectorService orchestrates the per-category checks into full passes and
// owns the conflict create/clear/refresh lifecycle.
type DetectorService struct {
	stores   DetectorStores
	detector *Detector
	metrics  *Metrics
	logger   *zap.Logger
}

// NewDetectorService instantiates DetectorService.
func NewDetectorService(stores DetectorStores, detector *Detector, metrics *Metrics, logger *zap.Logger) *DetectorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetectorService{stores: stores, detector: detector, metrics: metrics, logger: logger}
}

// LoadSnapshot bulk-fetches the state one pass runs over.
func (s *DetectorService) LoadSnapshot(ctx context.Context, scheduleID string) (*Snapshot, error) {
	slots, err := s.stores.Slots.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slots")
	}
	enrollments, err := s.stores.Enrollments.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	sections, err := s.stores.Sections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	teachers, err := s.stores.Teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := s.stores.Rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	courses, err := s.stores.Courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	students, err := s.stores.Students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	snap := &Snapshot{
		ScheduleID:  scheduleID,
		Slots:       slots,
		Enrollments: enrollments,
		Sections:    sections,
		Teachers:    make(map[string]models.Teacher, len(teachers)),
		Rooms:       make(map[string]models.Room, len(rooms)),
		Courses:     make(map[string]models.Course, len(courses)),
		Students:    make(map[string]models.Student, len(students)),
	}
	for _, t := range teachers {
		snap.Teachers[t.ID] = t
	}
	for _, r := range rooms {
		snap.Rooms[r.ID] = r
	}
	for _, c := range courses {
		snap.Courses[c.ID] = c
	}
	for _, st := range students {
		snap.Students[st.ID] = st
	}
	return snap, nil
}

// DetectAllConflicts runs every check over a fresh snapshot of the
// schedule. The result is not persisted; see RefreshConflicts.
func (s *DetectorService) DetectAllConflicts(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	if strings.TrimSpace(scheduleID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "schedule id is required")
	}
	started := time.Now()
	snap, err := s.LoadSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	conflicts := s.detector.Check(snap)
	s.metrics.ObserveDetection(time.Since(started), conflicts)
	s.logger.Info("detection pass complete",
		zap.String("schedule_id", scheduleID),
		zap.Int("slots", len(snap.Slots)),
		zap.Int("conflicts", len(conflicts)),
		zap.Duration("elapsed", time.Since(started)))
	return conflicts, nil
}

// DetectConflictsForSlot runs the time/room/teacher/capacity subset for one
// slot against the rest of its schedule, for incremental validation.
func (s *DetectorService) DetectConflictsForSlot(ctx context.Context, slot *models.ScheduleSlot) ([]models.Conflict, error) {
	if slot == nil || strings.TrimSpace(slot.ScheduleID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "slot with schedule id is required")
	}
	snap, err := s.LoadSnapshot(ctx, slot.ScheduleID)
	if err != nil {
		return nil, err
	}
	return s.detector.CheckSlot(snap, slot), nil
}

// DetectPotentialConflicts evaluates a not-yet-persisted candidate slot
// against the existing schedule. Any stored slot with the candidate's ID is
// excluded so a proposed edit is judged on its new state.
func (s *DetectorService) DetectPotentialConflicts(ctx context.Context, scheduleID string, candidate *models.ScheduleSlot) ([]models.Conflict, error) {
	if strings.TrimSpace(scheduleID) == "" || candidate == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "schedule id and candidate slot are required")
	}
	snap, err := s.LoadSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	kept := snap.Slots[:0]
	for _, existing := range snap.Slots {
		if existing.ID != candidate.ID {
			kept = append(kept, existing)
		}
	}
	snap.Slots = kept
	return s.detector.CheckSlot(snap, candidate), nil
}

// HasConflicts reports whether the schedule has unresolved conflicts in
// storage.
func (s *DetectorService) HasConflicts(ctx context.Context, scheduleID string) (bool, error) {
	count, err := s.CountConflicts(ctx, scheduleID)
	return count > 0, err
}

// CountConflicts returns the number of stored ACTIVE conflicts.
func (s *DetectorService) CountConflicts(ctx context.Context, scheduleID string) (int, error) {
	count, err := s.stores.Conflicts.CountActiveBySchedule(ctx, scheduleID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count conflicts")
	}
	return count, nil
}

// SaveConflicts persists a detection batch. An empty batch is a no-op.
func (s *DetectorService) SaveConflicts(ctx context.Context, conflicts []models.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	if err := s.stores.Conflicts.SaveAll(ctx, conflicts); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save conflicts")
	}
	return nil
}

// ClearConflicts drops every stored conflict for the schedule.
func (s *DetectorService) ClearConflicts(ctx context.Context, scheduleID string) error {
	if strings.TrimSpace(scheduleID) == "" {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "schedule id is required")
	}
	if err := s.stores.Conflicts.DeleteBySchedule(ctx, scheduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear conflicts")
	}
	return nil
}

// RefreshConflicts replaces the stored conflict set with a fresh detection
// pass: clear, detect, save. Callers serialise concurrent refreshes of one
// schedule.
func (s *DetectorService) RefreshConflicts(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	conflicts, err := s.DetectAllConflicts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.ClearConflicts(ctx, scheduleID); err != nil {
		return nil, err
	}
	if err := s.SaveConflicts(ctx, conflicts); err != nil {
		return nil, err
	}
	return conflicts, nil
}

// ValidateSchedule runs a full pass and tallies the findings by severity
// without persisting anything.
func (s *DetectorService) ValidateSchedule(ctx context.Context, scheduleID string) (*models.ValidationResult, error) {
	conflicts, err := s.DetectAllConflicts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	result := &models.ValidationResult{Conflicts: conflicts}
	result.Tally()
	return result, nil
}

// GetConflict returns one stored conflict. An unknown id surfaces as an
// invalid-argument error.
func (s *DetectorService) GetConflict(ctx context.Context, conflictID string) (*models.Conflict, error) {
	if strings.TrimSpace(conflictID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "conflict id is required")
	}
	conflict, err := s.stores.Conflicts.FindByID(ctx, conflictID)
	if err != nil || conflict == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "unknown conflict id")
	}
	return conflict, nil
}

// ListActiveConflicts returns the stored unresolved conflicts.
func (s *DetectorService) ListActiveConflicts(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	if strings.TrimSpace(scheduleID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "schedule id is required")
	}
	conflicts, err := s.stores.Conflicts.ListActiveBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conflicts")
	}
	return conflicts, nil
}
