// Package metrics records scheduling outcomes.
package metrics

// Recorder receives one call per scheduling outcome. Implementations must be
// safe for concurrent use.
type Recorder interface {
	// AssignmentCreated counts a successful booking.
	AssignmentCreated()
	// ConflictRejected counts a request refused by a conflict rule (time_overlap,
	// completed_deletion, completed_immutable).
	ConflictRejected(kind string)
	// StatusChanged counts lifecycle transitions by target status.
	StatusChanged(to string)
	// AssignmentDeleted counts hard deletes.
	AssignmentDeleted()
}

// Nop discards all metrics.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) AssignmentCreated()      {}
func (Nop) ConflictRejected(string) {}
func (Nop) StatusChanged(string)    {}
func (Nop) AssignmentDeleted()      {}
