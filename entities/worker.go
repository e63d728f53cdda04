package entities

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleFarmOwner Role = "FARM_OWNER"
	RoleWorker    Role = "WORKER"
)

// Worker is owned by the people module; scheduling only reads it.
type Worker struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `json:"name"`
	Email     string         `gorm:"uniqueIndex" json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Role      Role           `gorm:"size:16" json:"role"`
	Status    string         `gorm:"size:16" json:"status"` // ACTIVE|INACTIVE
	Expertise datatypes.JSON `json:"expertise,omitempty"`   // {"skills":[...],"hourlyRate":15}
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}
