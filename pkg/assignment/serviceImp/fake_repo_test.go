package serviceImp

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"farmwork/entities"
	"farmwork/pkg/apperror"
	"farmwork/pkg/assignment/repository"
	"farmwork/pkg/schedule"
)

// memRepo is an in-memory AssignmentRepository that records the calls it receives.
type memRepo struct {
	mu          sync.Mutex
	workers     map[string]entities.Worker
	plots       map[string]entities.LandPlot
	assignments map[string]entities.Assignment
	calls       []string
	nextID      int
	failWith    error
}

var _ repository.AssignmentRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		workers:     map[string]entities.Worker{"worker-1": {ID: "worker-1", Name: "Worker 1"}},
		plots:       map[string]entities.LandPlot{"plot-1": {ID: "plot-1", Name: "North"}, "plot-2": {ID: "plot-2", Name: "South"}},
		assignments: map[string]entities.Assignment{},
	}
}

func (m *memRepo) record(call string) error {
	m.calls = append(m.calls, call)
	return m.failWith
}

func (m *memRepo) FindWorker(_ context.Context, id string) (*entities.Worker, error) {
	if err := m.record("FindWorker"); err != nil {
		return nil, err
	}
	w, ok := m.workers[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (m *memRepo) FindLandPlot(_ context.Context, id string) (*entities.LandPlot, error) {
	if err := m.record("FindLandPlot"); err != nil {
		return nil, err
	}
	p, ok := m.plots[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memRepo) FindAssignment(_ context.Context, id string) (*entities.Assignment, error) {
	if err := m.record("FindAssignment"); err != nil {
		return nil, err
	}
	a, ok := m.assignments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memRepo) FindAssignmentDetail(ctx context.Context, id string) (*entities.Assignment, error) {
	a, err := m.FindAssignment(ctx, id)
	if a == nil || err != nil {
		return a, err
	}
	w := m.workers[a.WorkerID]
	p := m.plots[a.LandPlotID]
	a.Worker, a.LandPlot = &w, &p
	return a, nil
}

func (m *memRepo) FindOverlapping(_ context.Context, c schedule.Candidate) (*entities.Assignment, error) {
	if err := m.record("FindOverlapping"); err != nil {
		return nil, err
	}
	return schedule.FirstConflict(m.sorted(), c), nil
}

func (m *memRepo) CreateAssignment(_ context.Context, a *entities.Assignment) error {
	if err := m.record("CreateAssignment"); err != nil {
		return err
	}
	if a.ID == "" {
		m.nextID++
		a.ID = fmt.Sprintf("asg-%d", m.nextID)
	}
	m.assignments[a.ID] = *a
	return nil
}

func (m *memRepo) UpdateAssignment(_ context.Context, a *entities.Assignment) error {
	if err := m.record("UpdateAssignment"); err != nil {
		return err
	}
	m.assignments[a.ID] = *a
	return nil
}

func (m *memRepo) DeleteAssignment(_ context.Context, id string) error {
	if err := m.record("DeleteAssignment"); err != nil {
		return err
	}
	if _, ok := m.assignments[id]; !ok {
		return apperror.NotFound("Assignment", id)
	}
	delete(m.assignments, id)
	return nil
}

func (m *memRepo) ListAssignments(_ context.Context, f repository.Filter, p repository.Page) ([]entities.Assignment, int64, error) {
	if err := m.record("ListAssignments"); err != nil {
		return nil, 0, err
	}
	var out []entities.Assignment
	for _, a := range m.sorted() {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.WorkerID != "" && a.WorkerID != f.WorkerID {
			continue
		}
		out = append(out, a)
	}
	total := int64(len(out))
	lo := min(p.Offset(), len(out))
	hi := min(lo+p.Limit, len(out))
	return out[lo:hi], total, nil
}

func (m *memRepo) ListByWorker(_ context.Context, workerID string) ([]entities.Assignment, error) {
	var out []entities.Assignment
	for _, a := range m.sorted() {
		if a.WorkerID == workerID {
			out = append(out, a)
		}
	}
	return out, m.record("ListByWorker")
}

func (m *memRepo) ListByDate(_ context.Context, workDate string) ([]entities.Assignment, error) {
	var out []entities.Assignment
	for _, a := range m.sorted() {
		if a.WorkDate == workDate {
			out = append(out, a)
		}
	}
	return out, m.record("ListByDate")
}

func (m *memRepo) CountAll(context.Context) (int64, error) {
	return int64(len(m.assignments)), m.record("CountAll")
}

func (m *memRepo) CountByStatus(context.Context) ([]repository.StatusCount, error) {
	counts := map[entities.WorkStatus]int64{}
	for _, a := range m.assignments {
		counts[a.Status]++
	}
	var out []repository.StatusCount
	for _, st := range entities.WorkStatuses {
		if n := counts[st]; n > 0 {
			out = append(out, repository.StatusCount{Status: st, Count: n})
		}
	}
	return out, m.record("CountByStatus")
}

func (m *memRepo) CountByPaymentStatus(context.Context) ([]repository.PaymentStatusCount, error) {
	counts := map[entities.PaymentStatus]int64{}
	for _, a := range m.assignments {
		counts[a.PaymentStatus]++
	}
	var out []repository.PaymentStatusCount
	for _, st := range entities.PaymentStatuses {
		if n := counts[st]; n > 0 {
			out = append(out, repository.PaymentStatusCount{PaymentStatus: st, Count: n})
		}
	}
	return out, m.record("CountByPaymentStatus")
}

func (m *memRepo) WithinPlotLock(_ context.Context, landPlotID string, fn func(tx repository.AssignmentRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("WithinPlotLock"); err != nil {
		return err
	}
	if _, ok := m.plots[landPlotID]; !ok {
		return apperror.NotFound("Land Plot", landPlotID)
	}
	return fn(m)
}

func (m *memRepo) sorted() []entities.Assignment {
	out := make([]entities.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
