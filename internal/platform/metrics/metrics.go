// Package metrics exports placement engine activity to Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sanctuary/internal/core"
)

// Recorder implements core.MetricsRecorder and core.OccupancyRecorder.
type Recorder struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Units      *prometheus.GaugeVec
	Occupied   *prometheus.GaugeVec
	Residents  prometheus.Gauge
	Alumni     prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg. A nil reg uses the
// default registry.
func NewRecorder(reg prometheus.Registerer, namespace string) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "sanctuary"
	}
	r := &Recorder{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placement_operations_total",
			Help:      "Placement engine operations by outcome",
		}, []string{"operation", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "placement_operation_duration_seconds",
			Help:      "Duration of placement engine operations",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),
		Units: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "housing_units",
			Help:      "Housing units by kind",
		}, []string{"kind"}),
		Occupied: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "housing_units_occupied",
			Help:      "Housing units with at least one resident, by kind",
		}, []string{"kind"}),
		Residents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "residents",
			Help:      "Residents currently tracked",
		}),
		Alumni: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alumni",
			Help:      "Residents removed from the sanctuary",
		}),
	}
	for _, c := range []prometheus.Collector{r.Operations, r.Duration, r.Units, r.Occupied, r.Residents, r.Alumni} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one operation.
func (r *Recorder) Observe(_ context.Context, operation, outcome string, duration time.Duration) {
	r.Operations.WithLabelValues(operation, outcome).Inc()
	r.Duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveOccupancy records the registry state after a commit.
func (r *Recorder) ObserveOccupancy(counts core.RegistryCounts, residents, alumni int) {
	r.Units.WithLabelValues(string(core.KindEnclosure)).Set(float64(counts.Enclosures))
	r.Units.WithLabelValues(string(core.KindIsolation)).Set(float64(counts.IsolationCages))
	r.Occupied.WithLabelValues(string(core.KindEnclosure)).Set(float64(counts.OccupiedEnclosures))
	r.Occupied.WithLabelValues(string(core.KindIsolation)).Set(float64(counts.OccupiedIsolationCages))
	r.Residents.Set(float64(residents))
	r.Alumni.Set(float64(alumni))
}

var (
	_ core.MetricsRecorder   = (*Recorder)(nil)
	_ core.OccupancyRecorder = (*Recorder)(nil)
)
