package activity

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/metrics"
)

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	List(ctx context.Context, limit int) ([]Activity, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Create(ctx context.Context, a *Activity) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(a).Exec(ctx)
	r.metrics.RecordQuery(ctx, "insert", "activities", time.Since(start), err)
	return err
}

func (r *repository) List(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	var activities []Activity
	start := time.Now()
	err := r.db.NewSelect().
		Model(&activities).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "activities", time.Since(start), err)
	return activities, err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().Model((*Activity)(nil)).Count(ctx)
	r.metrics.RecordQuery(ctx, "select", "activities", time.Since(start), err)
	return count, err
}
