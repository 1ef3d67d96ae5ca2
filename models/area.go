package models

import (
	"time"

	"github.com/google/uuid"
)

// Area is a physical or organizational zone that contains rooms
type Area struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Area model
func (Area) TableName() string {
	return "areas"
}

// NewArea creates a new Area instance
func NewArea(name, description string) *Area {
	now := time.Now()
	return &Area{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Room is a bookable space inside an area
type Room struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AreaID    uuid.UUID `json:"area_id" db:"area_id"`
	Name      string    `json:"name" db:"name"`
	Capacity  int       `json:"capacity" db:"capacity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Room model
func (Room) TableName() string {
	return "rooms"
}

// NewRoom creates a new Room instance
func NewRoom(areaID uuid.UUID, name string, capacity int) *Room {
	now := time.Now()
	return &Room{
		ID:        uuid.New(),
		AreaID:    areaID,
		Name:      name,
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
