package models

import (
	"strings"
	"time"
)

// RoomType categorises rooms for type-mismatch detection.
type RoomType string

const (
	RoomTypeClassroom  RoomType = "CLASSROOM"
	RoomTypeScienceLab RoomType = "SCIENCE_LAB"
	RoomTypeComputer   RoomType = "COMPUTER_LAB"
	RoomTypeGym        RoomType = "GYM"
	RoomTypeAuditorium RoomType = "AUDITORIUM"
)

// Room describes a bookable room with capacity and equipment flags.
type Room struct {
	ID              string    `db:"id" json:"id"`
	RoomNumber      string    `db:"room_number" json:"room_number"`
	Building        string    `db:"building" json:"building"`
	Capacity        int       `db:"capacity" json:"capacity"`
	RoomType        RoomType  `db:"room_type" json:"room_type"`
	HasProjector    bool      `db:"has_projector" json:"has_projector"`
	HasSmartboard   bool      `db:"has_smartboard" json:"has_smartboard"`
	HasComputers    bool      `db:"has_computers" json:"has_computers"`
	HasLabEquipment bool      `db:"has_lab_equipment" json:"has_lab_equipment"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// IsLab reports whether the room satisfies a requires-lab course.
func (r *Room) IsLab() bool {
	if r == nil {
		return false
	}
	return r.RoomType == RoomTypeScienceLab || r.RoomType == RoomTypeComputer || r.HasLabEquipment
}

// HasResource maps a required-resource token onto the room's equipment
// flags. Unknown tokens are treated as unmet.
func (r *Room) HasResource(token string) bool {
	if r == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "":
		return true
	case "projector":
		return r.HasProjector
	case "smartboard":
		return r.HasSmartboard
	case "computer", "computers":
		return r.HasComputers
	case "lab", "lab_equipment":
		return r.HasLabEquipment
	default:
		return false
	}
}
