package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements Recorder with counters registered on reg.
type Prometheus struct {
	created   prometheus.Counter
	conflicts *prometheus.CounterVec
	statuses  *prometheus.CounterVec
	deleted   prometheus.Counter
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the scheduling counters under namespace (default
// "farmwork"). A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "farmwork"
	}
	p := &Prometheus{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "created_total",
			Help:      "Assignments successfully booked.",
		}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "conflicts_total",
			Help:      "Requests rejected by a conflict rule, by kind.",
		}, []string{"kind"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "status_changes_total",
			Help:      "Lifecycle transitions, by target status.",
		}, []string{"status"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "deleted_total",
			Help:      "Assignments hard deleted.",
		}),
	}
	reg.MustRegister(p.created, p.conflicts, p.statuses, p.deleted)
	return p
}

func (p *Prometheus) AssignmentCreated()           { p.created.Inc() }
func (p *Prometheus) ConflictRejected(kind string) { p.conflicts.WithLabelValues(kind).Inc() }
func (p *Prometheus) StatusChanged(to string)      { p.statuses.WithLabelValues(to).Inc() }
func (p *Prometheus) AssignmentDeleted()           { p.deleted.Inc() }
