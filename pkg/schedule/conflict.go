// Package schedule decides whether a candidate work window collides with the
// assignments already booked on a land plot.
package schedule

import (
	"context"
	"time"

	"farmwork/entities"
)

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Valid() bool { return w.Start.Before(w.End) }

// Overlaps reports whether two half-open windows intersect. Windows that only
// touch (one ends exactly when the other begins) do not overlap.
func Overlaps(a, b Window) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Candidate is a window proposed for a plot on a given work date.
type Candidate struct {
	LandPlotID string
	WorkDate   string // YYYY-MM-DD
	Window
	// ExcludeID skips the assignment being rescheduled so it does not collide with itself.
	ExcludeID string
}

// Blocks reports whether an existing assignment collides with c.
func (c Candidate) Blocks(a *entities.Assignment) bool {
	if a.ID == c.ExcludeID && c.ExcludeID != "" {
		return false
	}
	if a.Status == entities.StatusCancelled {
		return false
	}
	if a.LandPlotID != c.LandPlotID || a.WorkDate != c.WorkDate {
		return false
	}
	return Overlaps(c.Window, Window{Start: a.StartTime, End: a.EndTime})
}

// FirstConflict scans existing and returns the first assignment that blocks c, or nil.
func FirstConflict(existing []entities.Assignment, c Candidate) *entities.Assignment {
	for i := range existing {
		if c.Blocks(&existing[i]) {
			return &existing[i]
		}
	}
	return nil
}

// OverlapFinder is the read side of the assignment repository the detector needs.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, c Candidate) (*entities.Assignment, error)
}

// Result is the outcome of a conflict check.
type Result struct {
	Conflict      bool
	ConflictingID string
}

// Detector runs conflict checks against a repository. It never writes.
type Detector struct {
	finder OverlapFinder
}

func NewDetector(f OverlapFinder) *Detector { return &Detector{finder: f} }

func (d *Detector) Check(ctx context.Context, c Candidate) (Result, error) {
	hit, err := d.finder.FindOverlapping(ctx, c)
	if err != nil {
		return Result{}, err
	}
	if hit == nil {
		return Result{}, nil
	}
	return Result{Conflict: true, ConflictingID: hit.ID}, nil
}
