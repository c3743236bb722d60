package metrics

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics

	meter metric.Meter

	studentsRegistered metric.Int64Counter
	entriesEnqueued    metric.Int64Counter
	entriesServed      metric.Int64Counter
	entriesCompleted   metric.Int64Counter
	entriesCancelled   metric.Int64Counter
	entriesNoShow      metric.Int64Counter
	eventsPublished    metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	m.Database, err = NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.studentsRegistered, err = meter.Int64Counter(
		"queue_service.students.registered",
		metric.WithDescription("Total number of students registered"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.entriesEnqueued, err = meter.Int64Counter(
		"queue_service.entries.enqueued",
		metric.WithDescription("Total number of queue entries created"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.entriesServed, err = meter.Int64Counter(
		"queue_service.entries.served",
		metric.WithDescription("Total number of queue entries moved to being served"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.entriesCompleted, err = meter.Int64Counter(
		"queue_service.entries.completed",
		metric.WithDescription("Total number of queue entries completed"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.entriesCancelled, err = meter.Int64Counter(
		"queue_service.entries.cancelled",
		metric.WithDescription("Total number of queue entries cancelled"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.entriesNoShow, err = meter.Int64Counter(
		"queue_service.entries.no_show",
		metric.WithDescription("Total number of queue entries marked no-show"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.eventsPublished, err = meter.Int64Counter(
		"queue_service.events.published",
		metric.WithDescription("Total number of domain events published to the broker"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RegisterDB starts observing connection pool stats for the given pool.
func (m *Metrics) RegisterDB(db *sql.DB) error {
	if m == nil || m.Database == nil {
		return nil
	}
	return m.Database.RegisterDB(db, m.meter)
}

// RecordQuery is safe to call on a nil receiver so repositories work
// without a configured meter.
func (m *Metrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.Database.RecordQuery(ctx, operation, table, duration, err)
}

func (m *Metrics) RecordStudentRegistration(ctx context.Context) {
	if m != nil && m.studentsRegistered != nil {
		m.studentsRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEnqueue(ctx context.Context) {
	if m != nil && m.entriesEnqueued != nil {
		m.entriesEnqueued.Add(ctx, 1)
	}
}

func (m *Metrics) RecordServed(ctx context.Context) {
	if m != nil && m.entriesServed != nil {
		m.entriesServed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCompleted(ctx context.Context) {
	if m != nil && m.entriesCompleted != nil {
		m.entriesCompleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCancelled(ctx context.Context) {
	if m != nil && m.entriesCancelled != nil {
		m.entriesCancelled.Add(ctx, 1)
	}
}

func (m *Metrics) RecordNoShow(ctx context.Context) {
	if m != nil && m.entriesNoShow != nil {
		m.entriesNoShow.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEventPublished(ctx context.Context) {
	if m != nil && m.eventsPublished != nil {
		m.eventsPublished.Add(ctx, 1)
	}
}
