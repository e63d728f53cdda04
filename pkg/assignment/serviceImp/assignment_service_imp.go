package serviceImp

import (
	"context"
	"errors"
	"io"
	"math"
	"time"

	"farmwork/entities"
	"farmwork/pkg/apperror"
	"farmwork/pkg/assignment/repository"
	"farmwork/pkg/assignment/service"
	"farmwork/pkg/lifecycle"
	"farmwork/pkg/logging"
	"farmwork/pkg/metrics"
	"farmwork/pkg/report"
	"farmwork/pkg/schedule"
)

// payrollRowLimit caps one payroll export.
const payrollRowLimit = 10000

type assignmentSvc struct {
	repo    repository.AssignmentRepository
	log     logging.Logger
	metrics metrics.Recorder
	loc     *time.Location
}

type Option func(*assignmentSvc)

func WithLogger(l logging.Logger) Option { return func(s *assignmentSvc) { s.log = l } }

func WithMetrics(m metrics.Recorder) Option { return func(s *assignmentSvc) { s.metrics = m } }

// WithLocation sets the farm's time zone. A workDate is a calendar day on
// that zone's wall clock. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *assignmentSvc) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewAssignmentService(r repository.AssignmentRepository, opts ...Option) service.AssignmentService {
	s := &assignmentSvc{repo: r, log: logging.Nop(), metrics: metrics.Nop{}, loc: time.UTC}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *assignmentSvc) Create(ctx context.Context, in service.CreateInput) (*entities.Assignment, error) {
	a, err := newAssignment(in, s.loc)
	if err != nil {
		return nil, err
	}

	worker, err := s.repo.FindWorker(ctx, a.WorkerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, apperror.NotFound("Worker", a.WorkerID)
	}

	err = s.repo.WithinPlotLock(ctx, a.LandPlotID, func(tx repository.AssignmentRepository) error {
		if a.Status != entities.StatusCancelled {
			if err := s.ensureFree(ctx, tx, candidateOf(a, "")); err != nil {
				return err
			}
		}
		return tx.CreateAssignment(ctx, a)
	})
	if err != nil {
		return nil, s.observe(err)
	}

	s.metrics.AssignmentCreated()
	s.log.Info("assignment created", "id", a.ID, "plot", a.LandPlotID, "worker", a.WorkerID,
		"date", a.WorkDate, "start", a.StartTime, "end", a.EndTime)
	return s.detail(ctx, a.ID)
}

func (s *assignmentSvc) Update(ctx context.Context, id string, patch service.AssignmentPatch) (*entities.Assignment, error) {
	if err := validatePatch(patch, s.loc); err != nil {
		return nil, err
	}

	cur, err := s.repo.FindAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, apperror.NotFound("Assignment", id)
	}

	err = s.repo.WithinPlotLock(ctx, cur.LandPlotID, func(tx repository.AssignmentRepository) error {
		// reload under the lock; the first read only told us which plot to lock
		cur, err := tx.FindAssignment(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apperror.NotFound("Assignment", id)
		}
		if patch.TouchesWindow() {
			if err := lifecycle.CheckReschedule(cur.Status); err != nil {
				return err
			}
		}
		if patch.Status != nil {
			if err := lifecycle.Transition(cur.Status, *patch.Status); err != nil {
				return err
			}
		}

		merged := *cur
		applyPatch(&merged, patch, s.loc)
		if err := validateAssignment(&merged, s.loc); err != nil {
			return err
		}

		if patch.TouchesWindow() && merged.Status != entities.StatusCancelled {
			if err := s.ensureFree(ctx, tx, candidateOf(&merged, id)); err != nil {
				return err
			}
		}
		return tx.UpdateAssignment(ctx, &merged)
	})
	if err != nil {
		return nil, s.observe(err)
	}

	if patch.Status != nil {
		s.metrics.StatusChanged(string(*patch.Status))
	}
	s.log.Info("assignment updated", "id", id, "rescheduled", patch.TouchesWindow(), "status", patch.Status != nil)
	return s.detail(ctx, id)
}

func (s *assignmentSvc) Delete(ctx context.Context, id string) error {
	cur, err := s.repo.FindAssignment(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return apperror.NotFound("Assignment", id)
	}
	if err := lifecycle.CheckDelete(cur.Status); err != nil {
		return s.observe(err)
	}
	if err := s.repo.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	s.metrics.AssignmentDeleted()
	s.log.Info("assignment deleted", "id", id, "status", cur.Status)
	return nil
}

func (s *assignmentSvc) Start(ctx context.Context, id string) (*entities.Assignment, error) {
	return s.UpdateStatus(ctx, id, entities.StatusInProgress)
}

func (s *assignmentSvc) Complete(ctx context.Context, id string) (*entities.Assignment, error) {
	return s.UpdateStatus(ctx, id, entities.StatusCompleted)
}

func (s *assignmentSvc) Cancel(ctx context.Context, id string) (*entities.Assignment, error) {
	return s.UpdateStatus(ctx, id, entities.StatusCancelled)
}

// UpdateStatus moves an assignment through the lifecycle. Only the status
// column changes; payment status is left alone.
func (s *assignmentSvc) UpdateStatus(ctx context.Context, id string, status entities.WorkStatus) (*entities.Assignment, error) {
	return s.Update(ctx, id, service.AssignmentPatch{Status: &status})
}

func (s *assignmentSvc) Get(ctx context.Context, id string) (*entities.Assignment, error) {
	return s.detail(ctx, id)
}

func (s *assignmentSvc) List(ctx context.Context, f repository.Filter, q service.PageQuery) (*service.PageResult, error) {
	page, err := resolvePage(q)
	if err != nil {
		return nil, err
	}
	if f, err = s.dayFilter(f); err != nil {
		return nil, err
	}
	items, total, err := s.repo.ListAssignments(ctx, f, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entities.Assignment{}
	}
	totalPages := int(math.Ceil(float64(total) / float64(page.Limit)))
	return &service.PageResult{
		Data: items,
		Meta: service.PageMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page.Page < totalPages,
			HasPrev:    page.Page > 1,
		},
	}, nil
}

func (s *assignmentSvc) ListByWorker(ctx context.Context, workerID string) ([]entities.Assignment, error) {
	w, err := s.repo.FindWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NotFound("Worker", workerID)
	}
	return s.repo.ListByWorker(ctx, workerID)
}

func (s *assignmentSvc) ListByDate(ctx context.Context, workDate string) ([]entities.Assignment, error) {
	d, err := entities.ParseDate(workDate, s.loc)
	if err != nil {
		return nil, apperror.Validation("date", err.Error())
	}
	return s.repo.ListByDate(ctx, d)
}

func (s *assignmentSvc) Statistics(ctx context.Context) (*service.Statistics, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPayment, err := s.repo.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &service.Statistics{
		TotalAssignments:           total,
		AssignmentsByStatus:        byStatus,
		AssignmentsByPaymentStatus: byPayment,
	}, nil
}

func (s *assignmentSvc) Payroll(ctx context.Context, f repository.Filter, w io.Writer) error {
	f, err := s.dayFilter(f)
	if err != nil {
		return err
	}
	items, _, err := s.repo.ListAssignments(ctx, f, repository.Page{
		Page: 1, Limit: payrollRowLimit, SortBy: "work_date",
	})
	if err != nil {
		return err
	}
	return report.WritePayroll(w, items)
}

// dayFilter normalises a workDate filter, which may arrive as a timestamp, to
// the farm-local day key.
func (s *assignmentSvc) dayFilter(f repository.Filter) (repository.Filter, error) {
	if f.WorkDate == "" {
		return f, nil
	}
	d, err := entities.ParseDate(f.WorkDate, s.loc)
	if err != nil {
		return f, apperror.Validation("workDate", err.Error())
	}
	f.WorkDate = d
	return f, nil
}

func (s *assignmentSvc) detail(ctx context.Context, id string) (*entities.Assignment, error) {
	a, err := s.repo.FindAssignmentDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("Assignment", id)
	}
	return a, nil
}

func (s *assignmentSvc) ensureFree(ctx context.Context, tx repository.AssignmentRepository, c schedule.Candidate) error {
	res, err := schedule.NewDetector(tx).Check(ctx, c)
	if err != nil {
		return err
	}
	if res.Conflict {
		return apperror.TimeOverlap(res.ConflictingID)
	}
	return nil
}

// observe records and logs domain rejections before handing err back.
func (s *assignmentSvc) observe(err error) error {
	var ce *apperror.ConflictError
	if errors.As(err, &ce) {
		s.metrics.ConflictRejected(string(ce.Kind))
		s.log.Warn("assignment rejected", "kind", ce.Kind, "conflicting", ce.ConflictingID)
	}
	return err
}

func candidateOf(a *entities.Assignment, excludeID string) schedule.Candidate {
	return schedule.Candidate{
		LandPlotID: a.LandPlotID,
		WorkDate:   a.WorkDate,
		Window:     schedule.Window{Start: a.StartTime, End: a.EndTime},
		ExcludeID:  excludeID,
	}
}
