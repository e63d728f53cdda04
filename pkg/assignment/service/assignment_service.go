package service

import (
	"context"
	"io"
	"time"

	"farmwork/entities"
	"farmwork/pkg/assignment/repository"
)

type AssignmentService interface {
	Create(ctx context.Context, in CreateInput) (*entities.Assignment, error)
	Update(ctx context.Context, id string, patch AssignmentPatch) (*entities.Assignment, error)
	Delete(ctx context.Context, id string) error

	Start(ctx context.Context, id string) (*entities.Assignment, error)
	Complete(ctx context.Context, id string) (*entities.Assignment, error)
	Cancel(ctx context.Context, id string) (*entities.Assignment, error)
	UpdateStatus(ctx context.Context, id string, status entities.WorkStatus) (*entities.Assignment, error)

	Get(ctx context.Context, id string) (*entities.Assignment, error)
	List(ctx context.Context, f repository.Filter, q PageQuery) (*PageResult, error)
	ListByWorker(ctx context.Context, workerID string) ([]entities.Assignment, error)
	ListByDate(ctx context.Context, workDate string) ([]entities.Assignment, error)
	Statistics(ctx context.Context) (*Statistics, error)

	// Payroll writes an xlsx workbook of the filtered assignments to w.
	Payroll(ctx context.Context, f repository.Filter, w io.Writer) error
}

// CreateInput carries a new booking. Status and PaymentStatus are optional
// overrides of the ASSIGNED / PENDING defaults.
type CreateInput struct {
	WorkerID      string
	LandPlotID    string
	WorkDate      string // YYYY-MM-DD
	StartTime     time.Time
	EndTime       time.Time
	HourlyRate    float64
	Task          string
	LandArea      float64
	CropType      *string
	Status        *entities.WorkStatus
	PaymentStatus *entities.PaymentStatus
}

// AssignmentPatch is a partial update; nil fields are left unchanged.
type AssignmentPatch struct {
	WorkDate      *string
	StartTime     *time.Time
	EndTime       *time.Time
	HourlyRate    *float64
	Task          *string
	LandArea      *float64
	CropType      *string
	Status        *entities.WorkStatus
	PaymentStatus *entities.PaymentStatus
}

// TouchesWindow reports whether applying the patch can move the assignment in time.
func (p AssignmentPatch) TouchesWindow() bool {
	return p.WorkDate != nil || p.StartTime != nil || p.EndTime != nil
}

// PageQuery is the raw paging request; zero values take the defaults.
type PageQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // asc|desc
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type PageResult struct {
	Data []entities.Assignment `json:"data"`
	Meta PageMeta              `json:"meta"`
}

type Statistics struct {
	TotalAssignments           int64                           `json:"totalAssignments"`
	AssignmentsByStatus        []repository.StatusCount        `json:"assignmentsByStatus"`
	AssignmentsByPaymentStatus []repository.PaymentStatusCount `json:"assignmentsByPaymentStatus"`
}
