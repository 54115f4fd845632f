package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-conflict-api/internal/models"
)

// EnrollmentRepository reads student enrollments for conflict detection and
// updates them for student reassignment.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListBySchedule returns enrollments whose slot belongs to the schedule.
func (r *EnrollmentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.Enrollment, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.slot_id, e.status, e.created_at, e.updated_at
        FROM enrollments e
        JOIN schedule_slots s ON s.id = e.slot_id
        WHERE s.schedule_id = $1`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule enrollments: %w", err)
	}
	return enrollments, nil
}

// ListBySlot returns enrollments attached to one slot.
func (r *EnrollmentRepository) ListBySlot(ctx context.Context, slotID string) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, slot_id, status, created_at, updated_at
        FROM enrollments WHERE slot_id = $1`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, slotID); err != nil {
		return nil, fmt.Errorf("list slot enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateSlot moves an enrollment onto a different slot (section reassignment).
func (r *EnrollmentRepository) UpdateSlot(ctx context.Context, enrollmentID, slotID string) error {
	const query = `UPDATE enrollments SET slot_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, enrollmentID, slotID, time.Now().UTC()); err != nil {
		return fmt.Errorf("reassign enrollment: %w", err)
	}
	return nil
}
