package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/metrics"
)

func TestNew_BuildsDatabaseCollector(t *testing.T) {
	m, err := metrics.New(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, m.Database)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "users", 5*time.Millisecond, nil)
	m.RecordQuery(ctx, "insert", "users", 5*time.Millisecond, errors.New("boom"))
	m.RecordEnqueue(ctx)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *metrics.Metrics

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "users", time.Millisecond, nil)
	m.RecordEnqueue(ctx)
	require.NoError(t, m.RegisterDB(nil))
}
