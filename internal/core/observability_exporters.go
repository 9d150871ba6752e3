package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq uint64

// ExpvarMetricsRecorder publishes operation timings, outcome counters and the latest
// occupancy figures via expvar, for deployments that do not run Prometheus.
type ExpvarMetricsRecorder struct {
	name      string
	mu        sync.Mutex
	durations map[string]float64
	outcomes  map[string]map[string]int64
	occupancy ExpvarOccupancy
}

// ExpvarOccupancy mirrors the most recent registry counts.
type ExpvarOccupancy struct {
	Enclosures             int `json:"enclosures"`
	OccupiedEnclosures     int `json:"occupied_enclosures"`
	IsolationCages         int `json:"isolation_cages"`
	OccupiedIsolationCages int `json:"occupied_isolation_cages"`
	Residents              int `json:"residents"`
	Alumni                 int `json:"alumni"`
}

// ExpvarMetricsSnapshot captures a read-only view of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Outcomes    map[string]map[string]int64 `json:"outcomes_total"`
	Occupancy   ExpvarOccupancy             `json:"occupancy"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder publishes a recorder under name, or under a generated
// unique name when name is empty.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("sanctuary_placement_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{
		name:      name,
		durations: make(map[string]float64),
		outcomes:  make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}
	outcomes := make(map[string]map[string]int64, len(r.outcomes))
	for op, counts := range r.outcomes {
		cpy := make(map[string]int64, len(counts))
		for outcome, count := range counts {
			cpy[outcome] = count
		}
		outcomes[op] = cpy
	}
	return ExpvarMetricsSnapshot{
		DurationsMS: durations,
		Outcomes:    outcomes,
		Occupancy:   r.occupancy,
		RecordedAt:  time.Now().UTC(),
	}
}

// Observe implements MetricsRecorder.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation, outcome string, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)

	r.mu.Lock()
	r.durations[operation] += ms
	if _, ok := r.outcomes[operation]; !ok {
		r.outcomes[operation] = make(map[string]int64, 2)
	}
	r.outcomes[operation][outcome]++
	r.mu.Unlock()
}

// ObserveOccupancy implements OccupancyRecorder.
func (r *ExpvarMetricsRecorder) ObserveOccupancy(counts RegistryCounts, residents, alumni int) {
	r.mu.Lock()
	r.occupancy = ExpvarOccupancy{
		Enclosures:             counts.Enclosures,
		OccupiedEnclosures:     counts.OccupiedEnclosures,
		IsolationCages:         counts.IsolationCages,
		OccupiedIsolationCages: counts.OccupiedIsolationCages,
		Residents:              residents,
		Alumni:                 alumni,
	}
	r.mu.Unlock()
}

// JSONTraceEntry represents a serialized span emitted by JSONTraceTracer.
type JSONTraceEntry struct {
	Operation  string    `json:"operation"`
	Outcome    string    `json:"outcome"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// JSONTraceTracer writes spans as JSON lines and retains them for inspection.
type JSONTraceTracer struct {
	mu      sync.Mutex
	entries []JSONTraceEntry
	enc     *json.Encoder
}

// NewJSONTracer constructs a tracer writing to w; w may be nil to only retain spans.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &JSONTraceTracer{enc: enc}
}

// Entries returns a copy of all recorded spans.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]JSONTraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Start implements Tracer.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonTraceSpan{tracer: t, operation: operation, started: time.Now().UTC()}
}

type jsonTraceSpan struct {
	tracer    *JSONTraceTracer
	operation string
	started   time.Time
}

func (s *jsonTraceSpan) End(err error) {
	var errMsg string
	if err != nil {
		errMsg = err.Error()
	}
	ended := time.Now().UTC()
	entry := JSONTraceEntry{
		Operation:  s.operation,
		Outcome:    Outcome(err),
		DurationMS: float64(ended.Sub(s.started)) / float64(time.Millisecond),
		Error:      errMsg,
		StartedAt:  s.started,
		EndedAt:    ended,
	}

	s.tracer.mu.Lock()
	s.tracer.entries = append(s.tracer.entries, entry)
	if s.tracer.enc != nil {
		_ = s.tracer.enc.Encode(entry)
	}
	s.tracer.mu.Unlock()
}
