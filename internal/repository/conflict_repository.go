package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-conflict-api/internal/models"
)

const conflictColumns = `id, schedule_id, conflict_type, severity, title, description,
        affected_slot_ids, affected_teacher_ids, affected_student_ids,
        detected_at, status, resolved_by, resolved_at, resolution_note`

// ConflictRepository persists detected conflicts and their review lifecycle.
type ConflictRepository struct {
	db *sqlx.DB
}

// NewConflictRepository constructs the repository.
func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

// ListActiveBySchedule returns conflicts still needing attention, newest first.
func (r *ConflictRepository) ListActiveBySchedule(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	query := fmt.Sprintf(`SELECT %s FROM conflicts WHERE schedule_id = $1 AND status = $2
        ORDER BY detected_at DESC, id`, conflictColumns)
	var conflicts []models.Conflict
	if err := r.db.SelectContext(ctx, &conflicts, query, scheduleID, models.ConflictStatusActive); err != nil {
		return nil, fmt.Errorf("list active conflicts: %w", err)
	}
	return conflicts, nil
}

// ListByScheduleAndType filters active conflicts down to one category.
func (r *ConflictRepository) ListByScheduleAndType(ctx context.Context, scheduleID string, conflictType models.ConflictType) ([]models.Conflict, error) {
	query := fmt.Sprintf(`SELECT %s FROM conflicts WHERE schedule_id = $1 AND conflict_type = $2 AND status = $3
        ORDER BY detected_at DESC, id`, conflictColumns)
	var conflicts []models.Conflict
	if err := r.db.SelectContext(ctx, &conflicts, query, scheduleID, conflictType, models.ConflictStatusActive); err != nil {
		return nil, fmt.Errorf("list conflicts by type: %w", err)
	}
	return conflicts, nil
}

// FindByID returns a single conflict.
func (r *ConflictRepository) FindByID(ctx context.Context, id string) (*models.Conflict, error) {
	query := fmt.Sprintf("SELECT %s FROM conflicts WHERE id = $1", conflictColumns)
	var conflict models.Conflict
	if err := r.db.GetContext(ctx, &conflict, query, id); err != nil {
		return nil, err
	}
	return &conflict, nil
}

const conflictInsert = `INSERT INTO conflicts (id, schedule_id, conflict_type, severity, title, description,
        affected_slot_ids, affected_teacher_ids, affected_student_ids,
        detected_at, status, resolved_by, resolved_at, resolution_note)
        VALUES (:id, :schedule_id, :conflict_type, :severity, :title, :description,
        :affected_slot_ids, :affected_teacher_ids, :affected_student_ids,
        :detected_at, :status, :resolved_by, :resolved_at, :resolution_note)
        ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, resolved_by = EXCLUDED.resolved_by,
        resolved_at = EXCLUDED.resolved_at, resolution_note = EXCLUDED.resolution_note`

// Save upserts one conflict, assigning an ID when missing.
func (r *ConflictRepository) Save(ctx context.Context, conflict *models.Conflict) error {
	if conflict.ID == "" {
		conflict.ID = uuid.NewString()
	}
	if conflict.DetectedAt.IsZero() {
		conflict.DetectedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, conflictInsert, conflict); err != nil {
		return fmt.Errorf("save conflict: %w", err)
	}
	return nil
}

// SaveAll persists a detection batch in one transaction. An empty batch is a
// no-op.
func (r *ConflictRepository) SaveAll(ctx context.Context, conflicts []models.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save conflicts: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range conflicts {
		if conflicts[i].ID == "" {
			conflicts[i].ID = uuid.NewString()
		}
		if conflicts[i].DetectedAt.IsZero() {
			conflicts[i].DetectedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, conflictInsert, &conflicts[i]); err != nil {
			return fmt.Errorf("save conflict batch: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save conflicts: %w", err)
	}
	return nil
}

// DeleteBySchedule drops every stored conflict for a schedule. Used before a
// refresh so stale findings never linger.
func (r *ConflictRepository) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM conflicts WHERE schedule_id = $1", scheduleID); err != nil {
		return fmt.Errorf("delete schedule conflicts: %w", err)
	}
	return nil
}

// CountActiveBySchedule returns the number of unresolved conflicts.
func (r *ConflictRepository) CountActiveBySchedule(ctx context.Context, scheduleID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM conflicts WHERE schedule_id = $1 AND status = $2",
		scheduleID, models.ConflictStatusActive)
	if err != nil {
		return 0, fmt.Errorf("count active conflicts: %w", err)
	}
	return count, nil
}
