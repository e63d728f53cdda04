package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the storage format of Assignment.WorkDate.
const DateLayout = "2006-01-02"

type WorkStatus string

const (
	StatusAssigned   WorkStatus = "ASSIGNED"
	StatusInProgress WorkStatus = "IN_PROGRESS"
	StatusCompleted  WorkStatus = "COMPLETED"
	StatusCancelled  WorkStatus = "CANCELLED"
)

// WorkStatuses lists every status in lifecycle order.
var WorkStatuses = []WorkStatus{StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled}

func ParseWorkStatus(s string) (WorkStatus, error) {
	v := WorkStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range WorkStatuses {
		if v == st {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown work status %q", s)
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentCancelled}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	v := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range PaymentStatuses {
		if v == st {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Assignment is one worker's labor on one land plot for a window of one calendar day.
type Assignment struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	WorkerID      string        `gorm:"size:36;index;not null" json:"workerId"`
	LandPlotID    string        `gorm:"size:36;not null;index:idx_assignments_plot_date,priority:1" json:"landPlotId"`
	WorkDate      string        `gorm:"size:10;not null;index:idx_assignments_plot_date,priority:2" json:"workDate"` // YYYY-MM-DD
	StartTime     time.Time     `gorm:"not null" json:"startTime"`
	EndTime       time.Time     `gorm:"not null" json:"endTime"`
	HourlyRate    float64       `gorm:"not null" json:"hourlyRate"`
	Task          string        `gorm:"not null" json:"task"`
	LandArea      float64       `gorm:"not null" json:"landArea"` // sqm
	CropType      *string       `json:"cropType"`
	Status        WorkStatus    `gorm:"size:16;not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:16;not null;index" json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	// read-side projections, filled by Preload
	Worker   *Worker   `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	LandPlot *LandPlot `gorm:"foreignKey:LandPlotID" json:"landPlot,omitempty"`
}

func (a *Assignment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Hours is the billable duration of the assignment window.
func (a *Assignment) Hours() float64 { return a.EndTime.Sub(a.StartTime).Hours() }

// Amount is what the worker is owed for the window at the agreed hourly rate.
func (a *Assignment) Amount() float64 { return a.Hours() * a.HourlyRate }

// DateKey is the YYYY-MM-DD key of t on the wall clock of loc. A nil loc
// means UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ParseDate accepts either a bare date or an RFC3339 timestamp and returns its
// date key in loc.
func ParseDate(s string, loc *time.Location) (string, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.Format(DateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", s)
	}
	return DateKey(t, loc), nil
}
