package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	appErrors "github.com/noah-isme/sma-conflict-api/pkg/errors"
)

const (
	softEntityWeight = 2
	softEntityCap    = 30
	softAgeCap       = 20
	cascadeCap       = 5

	urgentThreshold = 70
	highThreshold   = 50
	mediumThreshold = 30
)

var hardScores = map[models.ConflictSeverity]int{
	models.SeverityCritical: 50,
	models.SeverityHigh:     40,
	models.SeverityMedium:   30,
	models.SeverityLow:      15,
	models.SeverityInfo:     5,
}

// Default success percentages per resolution type. More disruptive fixes
// never rank above less disruptive ones.
var successRates = map[models.ResolutionType]int{
	models.ResolutionChangeRoom:       85,
	models.ResolutionChangeTimeSlot:   75,
	models.ResolutionChangeTeacher:    70,
	models.ResolutionReassignStudent:  65,
	models.ResolutionRedistributeLoad: 55,
	models.ResolutionSplitSection:     50,
	models.ResolutionManualReview:     30,
}

// RankedConflict pairs a conflict with its computed priority.
type RankedConflict struct {
	Conflict models.Conflict      `json:"conflict"`
	Score    models.PriorityScore `json:"score"`
}

// PriorityService ranks active conflicts for triage.
type PriorityService struct {
	conflicts conflictRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewPriorityService instantiates PriorityService.
func NewPriorityService(conflicts conflictRepository, logger *zap.Logger) *PriorityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriorityService{conflicts: conflicts, logger: logger, now: time.Now}
}

/// CalculatePriorityScore computes the composite urgency of one conflict:
// a hard component from severity plus a soft component from affected-entity
// count and age.
func (s *PriorityService) CalculatePriorityScore(conflict *models.Conflict) models.PriorityScore {
	if conflict == nil {
		return models.PriorityScore{Level: models.PriorityLow}
	}
	hard := hardScores[conflict.Severity]

	entityPart := softEntityWeight * conflict.AffectedEntityCount()
	if entityPart > softEntityCap {
		entityPart = softEntityCap
	}
	agePart := 0
	if !conflict.DetectedAt.IsZero() {
		agePart = int(s.now().Sub(conflict.DetectedAt).Hours() / 24)
		if agePart < 0 {
			agePart = 0
		}
		if agePart > softAgeCap {
			agePart = softAgeCap
		}
	}
	soft := entityPart + agePart
	total := hard + soft

	level := models.PriorityLow
	switch {
	case total >= urgentThreshold:
		level = models.PriorityUrgent
	case total >= highThreshold:
		level = models.PriorityHigh
	case total >= mediumThreshold:
		level = models.PriorityMedium
	}
	return models.PriorityScore{
		ConflictID: conflict.ID,
		HardScore:  hard,
		SoftScore:  soft,
		Total:      total,
		Level:      level,
	}
}

// ConflictsByPriority fetches the schedule's active conflicts and ranks
// them by descending total score, more recent first on ties.
func (s *PriorityService) ConflictsByPriority(ctx context.Context, scheduleID string) ([]RankedConflict, error) {
	conflicts, err := s.conflicts.ListActiveBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conflicts")
	}
	ranked := make([]RankedConflict, 0, len(conflicts))
	for i := range conflicts {
		ranked = append(ranked, RankedConflict{
			Conflict: conflicts[i],
			Score:    s.CalculatePriorityScore(&conflicts[i]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score.Total != ranked[j].Score.Total {
			return ranked[i].Score.Total > ranked[j].Score.Total
		}
		return ranked[i].Conflict.DetectedAt.After(ranked[j].Conflict.DetectedAt)
	})
	return ranked, nil
}

// EstimateCascadeImpact gives a rough count of downstream entities a
// resolution would touch, capped low so it stays a triage hint.
func (s *PriorityService) EstimateCascadeImpact(conflict *models.Conflict) int {
	if conflict == nil {
		return 0
	}
	impact := conflict.AffectedEntityCount()
	if conflict.Severity == models.SeverityCritical {
		impact++
	}
	if impact > cascadeCap {
		impact = cascadeCap
	}
	return impact
}

// HistoricalSuccessRate returns the default success percentage for a
// resolution type, 1 to 100. Unknown types get a neutral 50.
func (s *PriorityService) HistoricalSuccessRate(resolutionType models.ResolutionType) int {
	if rate, ok := successRates[resolutionType]; ok {
		return rate
	}
	return 50
}
