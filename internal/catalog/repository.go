package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/metrics"
)

var ErrServiceNotFound = errors.New("service not found")

type Repository interface {
	Create(ctx context.Context, s *Service) (*Service, error)
	GetAll(ctx context.Context, activeOnly bool) ([]Service, error)
	GetByID(ctx context.Context, id int) (*Service, error)
	GetByName(ctx context.Context, name string) (*Service, error)
	Update(ctx context.Context, s *Service) error
	SetActive(ctx context.Context, id int, active bool) error
	UpsertByName(ctx context.Context, s *Service) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Create(ctx context.Context, s *Service) (*Service, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(s).Returning("*").Exec(ctx)
	r.metrics.RecordQuery(ctx, "insert", "services", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repository) GetAll(ctx context.Context, activeOnly bool) ([]Service, error) {
	var services []Service
	q := r.db.NewSelect().Model(&services).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active")
	}
	start := time.Now()
	err := q.Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "services", time.Since(start), err)
	return services, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Service, error) {
	s := new(Service)
	start := time.Now()
	err := r.db.NewSelect().Model(s).Where("id = ?", id).Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "services", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Service, error) {
	s := new(Service)
	start := time.Now()
	err := r.db.NewSelect().Model(s).Where("name = ?", name).Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "services", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return s, nil
}

// Update writes the editable columns only so the creation timestamp
// survives updates from a partially filled model.
func (r *repository) Update(ctx context.Context, s *Service) error {
	s.UpdatedAt = time.Now()
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(s).
		Column("name", "description", "estimated_time", "is_active", "updated_at").
		WherePK().
		Exec(ctx)
	r.metrics.RecordQuery(ctx, "update", "services", time.Since(start), err)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// SetActive deactivates a service instead of deleting it while queue entries
// still reference it.
func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model((*Service)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.RecordQuery(ctx, "update", "services", time.Since(start), err)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// UpsertByName inserts or refreshes a service keyed by its unique name, so
// reseeding the same catalog is idempotent.
func (r *repository) UpsertByName(ctx context.Context, s *Service) error {
	s.UpdatedAt = time.Now()
	start := time.Now()
	_, err := r.db.NewInsert().
		Model(s).
		On("CONFLICT (name) DO UPDATE").
		Set("description = EXCLUDED.description").
		Set("estimated_time = EXCLUDED.estimated_time").
		Set("is_active = EXCLUDED.is_active").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	r.metrics.RecordQuery(ctx, "upsert", "services", time.Since(start), err)
	return err
}
