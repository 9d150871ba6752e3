package core

import (
	"context"
	"errors"
	"time"

	"sanctuary/pkg/domain"
)

// Clock supplies the engine's notion of now.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Logger is the structured logger used by the engine. Arguments are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// AuditEntry records one committed change.
type AuditEntry struct {
	Operation  string
	Action     domain.Action
	ResidentID ResidentID
	From       UnitID
	To         UnitID
	Detail     string
	Outcome    string
	At         time.Time
}

// AuditRecorder receives an entry for every change an operation commits.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// MetricsRecorder observes operation outcomes. Outcome is "success" or the error kind.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation, outcome string, duration time.Duration)
}

// OccupancyRecorder is optionally implemented by a MetricsRecorder that also tracks
// occupancy after each commit.
type OccupancyRecorder interface {
	ObserveOccupancy(counts RegistryCounts, residents, alumni int)
}

// Tracer starts a span around each engine operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan ends with the operation's error, nil on success.
type TraceSpan interface {
	End(err error)
}

// Outcome labels for metrics and audit entries.
const (
	OutcomeSuccess           = "success"
	OutcomeValidation        = "validation"
	OutcomeNotFound          = "not_found"
	OutcomeUnavailable       = "unavailable"
	OutcomeHealthRestriction = "health_restriction"
	OutcomeOccupied          = "occupied"
	OutcomeCapacityExhausted = "capacity_exhausted"
	OutcomeWrongKind         = "wrong_kind"
	OutcomeRuleViolation     = "rule_violation"
	OutcomeError             = "error"
)

// Outcome classifies err into a stable label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, domain.ErrHealthRestriction):
		return OutcomeHealthRestriction
	case errors.Is(err, domain.ErrOccupied):
		return OutcomeOccupied
	case errors.Is(err, domain.ErrCapacityExhausted):
		return OutcomeCapacityExhausted
	case errors.Is(err, domain.ErrWrongKind):
		return OutcomeWrongKind
	}
	var rv RuleViolationError
	if errors.As(err, &rv) {
		return OutcomeRuleViolation
	}
	return OutcomeError
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, string, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// Option customizes a PlacementEngine.
type Option func(*engineOptions)

type engineOptions struct {
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	ids     domain.IDGenerator
	rules   *RulesEngine
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:  noopLogger{},
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		ids:     UUIDGenerator{},
		rules:   NewDefaultRulesEngine(),
	}
}

// WithClock overrides the clock used for admission, update and removal timestamps.
func WithClock(clock Clock) Option {
	return func(o *engineOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(audit AuditRecorder) Option {
	return func(o *engineOptions) {
		if audit != nil {
			o.audit = audit
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(metrics MetricsRecorder) Option {
	return func(o *engineOptions) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer Tracer) Option {
	return func(o *engineOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithIDGenerator replaces the UUID generator, e.g. with NewSequenceGenerator in tests.
func WithIDGenerator(ids domain.IDGenerator) Option {
	return func(o *engineOptions) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// WithRulesEngine replaces the default invariant rules.
func WithRulesEngine(rules *RulesEngine) Option {
	return func(o *engineOptions) {
		if rules != nil {
			o.rules = rules
		}
	}
}
