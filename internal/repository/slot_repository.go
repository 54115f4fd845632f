package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-conflict-api/internal/models"
)

const slotColumns = `id, schedule_id, day_of_week, start_time, end_time, period_number,
        teacher_id, room_id, course_id, lunch_wave, is_lunch_slot, created_at, updated_at`

// SlotRepository handles persistence of schedule slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository constructs the repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// List returns every slot across all schedules.
func (r *SlotRepository) List(ctx context.Context) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots ORDER BY day_of_week, start_time, id", slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ListBySchedule returns the slots belonging to one schedule.
func (r *SlotRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE schedule_id = $1 ORDER BY day_of_week, start_time, id", slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	return slots, nil
}

// FindByID returns a slot by its ID.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE id = $1", slotColumns)
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Save upserts a slot. The resolution applier is the only writer.
func (r *SlotRepository) Save(ctx context.Context, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	slot.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO schedule_slots (id, schedule_id, day_of_week, start_time, end_time, period_number,
        teacher_id, room_id, course_id, lunch_wave, is_lunch_slot, created_at, updated_at)
        VALUES (:id, :schedule_id, :day_of_week, :start_time, :end_time, :period_number,
        :teacher_id, :room_id, :course_id, :lunch_wave, :is_lunch_slot, :created_at, :updated_at)
        ON CONFLICT (id) DO UPDATE SET day_of_week = EXCLUDED.day_of_week, start_time = EXCLUDED.start_time,
        end_time = EXCLUDED.end_time, period_number = EXCLUDED.period_number, teacher_id = EXCLUDED.teacher_id,
        room_id = EXCLUDED.room_id, course_id = EXCLUDED.course_id, lunch_wave = EXCLUDED.lunch_wave,
        is_lunch_slot = EXCLUDED.is_lunch_slot, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

// Delete removes a slot.
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schedule_slots WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
