package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"farmwork/entities"
	"farmwork/pkg/apperror"
	"farmwork/pkg/assignment/repository"
	plotRepo "farmwork/pkg/landplot/repository"
	plotRepoImp "farmwork/pkg/landplot/repositoryImp"
	"farmwork/pkg/schedule"
	workerRepo "farmwork/pkg/worker/repository"
	workerRepoImp "farmwork/pkg/worker/repositoryImp"
)

// overlapTriggerMsg must match the RAISE message installed by database.installOverlapGuards.
const overlapTriggerMsg = "assignment time overlap"

type assignmentRepo struct {
	db      *gorm.DB
	workers workerRepo.WorkerRepository
	plots   plotRepo.LandPlotRepository
}

func New(db *gorm.DB) repository.AssignmentRepository { return newRepo(db) }

func newRepo(db *gorm.DB) *assignmentRepo {
	return &assignmentRepo{db: db, workers: workerRepoImp.New(db), plots: plotRepoImp.New(db)}
}

func (r *assignmentRepo) with(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

func detail(db *gorm.DB) *gorm.DB {
	return db.Preload("Worker").Preload("LandPlot").Preload("LandPlot.Zone")
}

func first[T any](db *gorm.DB, conds ...any) (*T, error) {
	var out T
	if err := db.First(&out, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *assignmentRepo) FindWorker(ctx context.Context, id string) (*entities.Worker, error) {
	return r.workers.FindByID(ctx, id)
}

func (r *assignmentRepo) FindLandPlot(ctx context.Context, id string) (*entities.LandPlot, error) {
	return r.plots.FindByID(ctx, id)
}

func (r *assignmentRepo) FindAssignment(ctx context.Context, id string) (*entities.Assignment, error) {
	return first[entities.Assignment](r.with(ctx), "id = ?", id)
}

func (r *assignmentRepo) FindAssignmentDetail(ctx context.Context, id string) (*entities.Assignment, error) {
	return first[entities.Assignment](detail(r.with(ctx)), "id = ?", id)
}

// FindOverlapping loads the plot's live bookings for the day and applies the
// half-open overlap rule in Go; a plot rarely has more than a handful per day.
func (r *assignmentRepo) FindOverlapping(ctx context.Context, c schedule.Candidate) (*entities.Assignment, error) {
	q := r.with(ctx).
		Where("land_plot_id = ? AND work_date = ? AND status <> ?", c.LandPlotID, c.WorkDate, entities.StatusCancelled)
	if c.ExcludeID != "" {
		q = q.Where("id <> ?", c.ExcludeID)
	}
	var sameDay []entities.Assignment
	if err := q.Order("start_time ASC").Find(&sameDay).Error; err != nil {
		return nil, err
	}
	return schedule.FirstConflict(sameDay, c), nil
}

func (r *assignmentRepo) CreateAssignment(ctx context.Context, a *entities.Assignment) error {
	return mapWriteErr(r.with(ctx).Omit(clause.Associations).Create(a).Error)
}

func (r *assignmentRepo) UpdateAssignment(ctx context.Context, a *entities.Assignment) error {
	res := r.with(ctx).Omit(clause.Associations).Save(a)
	return mapWriteErr(res.Error)
}

func (r *assignmentRepo) DeleteAssignment(ctx context.Context, id string) error {
	res := r.with(ctx).Delete(&entities.Assignment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Assignment", id)
	}
	return nil
}

func (r *assignmentRepo) ListAssignments(ctx context.Context, f repository.Filter, p repository.Page) ([]entities.Assignment, int64, error) {
	q := r.with(ctx).Model(&entities.Assignment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.WorkerID != "" {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	if f.LandPlotID != "" {
		q = q.Where("land_plot_id = ?", f.LandPlotID)
	}
	if f.WorkDate != "" {
		q = q.Where("work_date = ?", f.WorkDate)
	}
	if f.CropType != "" {
		q = q.Where("LOWER(crop_type) LIKE ?", "%"+strings.ToLower(f.CropType)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entities.Assignment
	err := detail(q).
		Order(clause.OrderByColumn{Column: clause.Column{Name: p.SortBy}, Desc: p.SortDesc}).
		Order("id ASC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *assignmentRepo) ListByWorker(ctx context.Context, workerID string) ([]entities.Assignment, error) {
	var out []entities.Assignment
	err := r.with(ctx).Preload("LandPlot").Preload("LandPlot.Zone").
		Where("worker_id = ?", workerID).
		Order("work_date DESC, start_time ASC").
		Find(&out).Error
	return out, err
}

func (r *assignmentRepo) ListByDate(ctx context.Context, workDate string) ([]entities.Assignment, error) {
	var out []entities.Assignment
	err := detail(r.with(ctx)).
		Where("work_date = ?", workDate).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (r *assignmentRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	return n, r.with(ctx).Model(&entities.Assignment{}).Count(&n).Error
}

func (r *assignmentRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	var out []repository.StatusCount
	err := r.with(ctx).Model(&entities.Assignment{}).
		Select("status, COUNT(*) AS count").
		Group("status").Order("status").
		Scan(&out).Error
	return out, err
}

func (r *assignmentRepo) CountByPaymentStatus(ctx context.Context) ([]repository.PaymentStatusCount, error) {
	var out []repository.PaymentStatusCount
	err := r.with(ctx).Model(&entities.Assignment{}).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").Order("payment_status").
		Scan(&out).Error
	return out, err
}

// WithinPlotLock opens with a write on the plot row that leaves its data as
// it was. In SQLite any write takes the database RESERVED lock, so the overlap
// read that follows sees every committed booking and no other writer can slip
// in before commit. The matched row count doubles as the existence check.
func (r *assignmentRepo) WithinPlotLock(ctx context.Context, landPlotID string, fn func(tx repository.AssignmentRepository) error) error {
	return r.with(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.LandPlot{}).
			Where("id = ?", landPlotID).
			UpdateColumn("name", gorm.Expr("name"))
		if res.Error != nil {
			return fmt.Errorf("lock land plot: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("Land Plot", landPlotID)
		}
		return fn(newRepo(tx))
	})
}

// mapWriteErr turns the overlap trigger abort into the domain conflict.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), overlapTriggerMsg) {
		return apperror.TimeOverlap("")
	}
	return err
}
