package repository

import (
	"context"

	"farmwork/entities"
	"farmwork/pkg/schedule"
)

// Filter narrows ListAssignments. Empty fields are ignored.
type Filter struct {
	Status        entities.WorkStatus
	PaymentStatus entities.PaymentStatus
	WorkerID      string
	LandPlotID    string
	WorkDate      string // YYYY-MM-DD
	CropType      string // case-insensitive substring
}

// Page is an already validated page request.
type Page struct {
	Page     int
	Limit    int
	SortBy   string // column name
	SortDesc bool
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

type StatusCount struct {
	Status entities.WorkStatus `json:"status"`
	Count  int64               `json:"count"`
}

type PaymentStatusCount struct {
	PaymentStatus entities.PaymentStatus `json:"paymentStatus"`
	Count         int64                  `json:"count"`
}

// AssignmentRepository is the only way the scheduling core observes or changes state.
// Lookups return (nil, nil) when the record does not exist.
type AssignmentRepository interface {
	FindWorker(ctx context.Context, id string) (*entities.Worker, error)
	FindLandPlot(ctx context.Context, id string) (*entities.LandPlot, error)
	FindAssignment(ctx context.Context, id string) (*entities.Assignment, error)
	// FindAssignmentDetail is FindAssignment with worker and land plot projections loaded.
	FindAssignmentDetail(ctx context.Context, id string) (*entities.Assignment, error)
	FindOverlapping(ctx context.Context, c schedule.Candidate) (*entities.Assignment, error)

	CreateAssignment(ctx context.Context, a *entities.Assignment) error
	UpdateAssignment(ctx context.Context, a *entities.Assignment) error
	DeleteAssignment(ctx context.Context, id string) error

	ListAssignments(ctx context.Context, f Filter, p Page) ([]entities.Assignment, int64, error)
	ListByWorker(ctx context.Context, workerID string) ([]entities.Assignment, error)
	ListByDate(ctx context.Context, workDate string) ([]entities.Assignment, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByPaymentStatus(ctx context.Context) ([]PaymentStatusCount, error)

	// WithinPlotLock runs fn in one transaction that holds the write lock for
	// landPlotID, so a conflict check and the write that follows it cannot
	// interleave with another writer. It returns a not-found error if the plot
	// does not exist.
	WithinPlotLock(ctx context.Context, landPlotID string, fn func(tx AssignmentRepository) error) error
}
