package entities

import "time"

type Zone struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Color     string    `json:"color"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// LandPlot is the scheduling key for assignments and the scope of overlap checks.
type LandPlot struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `json:"name"`
	Area      float64   `json:"area"`                  // sqm
	Status    string    `gorm:"size:16" json:"status"` // AVAILABLE|IN_USE|MAINTENANCE
	ZoneID    string    `gorm:"size:36;index" json:"zoneId"`
	Zone      *Zone     `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
