package models

import (
	"strings"
	"time"
)

// Course describes an offered course and its room requirements.
type Course struct {
	ID                string    `db:"id" json:"id"`
	Code              string    `db:"code" json:"code"`
	Name              string    `db:"name" json:"name"`
	Subject           string    `db:"subject" json:"subject"`
	MaxStudents       int       `db:"max_students" json:"max_students"`
	RequiresLab       bool      `db:"requires_lab" json:"requires_lab"`
	RequiredResources string    `db:"required_resources" json:"required_resources"`
	Prerequisites     string    `db:"prerequisites" json:"prerequisites"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ResourceTokens splits the comma-separated required-resource list.
func (c *Course) ResourceTokens() []string {
	if c == nil || strings.TrimSpace(c.RequiredResources) == "" {
		return nil
	}
	parts := strings.Split(c.RequiredResources, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}
