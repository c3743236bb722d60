package queue

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/metrics"
)

type Repository interface {
	// Enqueue assigns the position and inserts the entry inside one
	// transaction. estimatePerPosition is the service's per-student estimate
	// in minutes; the stored estimate is position * estimatePerPosition.
	Enqueue(ctx context.Context, e *Entry, estimatePerPosition int) error
	GetByID(ctx context.Context, id int) (*Entry, error)
	ActiveByUser(ctx context.Context, userID int) (*Entry, error)
	ListByService(ctx context.Context, serviceID int, activeOnly bool) ([]Entry, error)
	NextWaiting(ctx context.Context, serviceID int) (*Entry, error)
	CountWaitingAhead(ctx context.Context, e *Entry) (int, error)
	// Transition persists the entry mutation and, when hist is non-nil,
	// writes the history snapshot in the same transaction.
	Transition(ctx context.Context, e *Entry, hist *History) error
	ListHistory(ctx context.Context, serviceID int, limit int) ([]History, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Enqueue(ctx context.Context, e *Entry, estimatePerPosition int) error {
	start := time.Now()
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*Entry)(nil)).
			Where("service_id = ?", e.ServiceID).
			Where("status IN (?)", bun.In([]Status{StatusWaiting, StatusBeingServed})).
			Count(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		e.PositionNumber = count + 1
		e.Status = StatusWaiting
		e.EstimatedTime = e.PositionNumber * estimatePerPosition
		e.CreatedAt = now
		e.UpdatedAt = now

		_, err = tx.NewInsert().Model(e).Returning("*").Exec(ctx)
		return err
	})
	r.metrics.RecordQuery(ctx, "insert", "queue_entries", time.Since(start), err)
	if err != nil {
		if isUniqueViolation(err) {
			// the partial unique index caught a concurrent duplicate
			return ErrDuplicateActiveEntry
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Entry, error) {
	e := new(Entry)
	start := time.Now()
	err := r.db.NewSelect().Model(e).Where("id = ?", id).Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "queue_entries", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// ActiveByUser returns the user's live entry, or ErrEntryNotFound when the
// user holds none. By invariant there is at most one.
func (r *repository) ActiveByUser(ctx context.Context, userID int) (*Entry, error) {
	e := new(Entry)
	start := time.Now()
	err := r.db.NewSelect().
		Model(e).
		Where("user_id = ?", userID).
		Where("status IN (?)", bun.In([]Status{StatusWaiting, StatusBeingServed})).
		Limit(1).
		Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "queue_entries", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *repository) ListByService(ctx context.Context, serviceID int, activeOnly bool) ([]Entry, error) {
	var entries []Entry
	q := r.db.NewSelect().
		Model(&entries).
		Where("service_id = ?", serviceID).
		Order("priority DESC", "position_number ASC")
	if activeOnly {
		q = q.Where("status IN (?)", bun.In([]Status{StatusWaiting, StatusBeingServed}))
	}
	start := time.Now()
	err := q.Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "queue_entries", time.Since(start), err)
	return entries, err
}

// NextWaiting picks the entry staff should serve next: highest priority
// first, then lowest position.
func (r *repository) NextWaiting(ctx context.Context, serviceID int) (*Entry, error) {
	e := new(Entry)
	start := time.Now()
	err := r.db.NewSelect().
		Model(e).
		Where("service_id = ?", serviceID).
		Where("status = ?", StatusWaiting).
		Order("priority DESC", "position_number ASC").
		Limit(1).
		Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "queue_entries", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// CountWaitingAhead computes the entry's live position at read time instead
// of trusting the persisted position_number, which is not renumbered when
// earlier entries leave the queue.
func (r *repository) CountWaitingAhead(ctx context.Context, e *Entry) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().
		Model((*Entry)(nil)).
		Where("service_id = ?", e.ServiceID).
		Where("status = ?", StatusWaiting).
		Where("(priority > ?) OR (priority = ? AND position_number < ?)",
			e.Priority, e.Priority, e.PositionNumber).
		Count(ctx)
	r.metrics.RecordQuery(ctx, "select", "queue_entries", time.Since(start), err)
	return count, err
}

func (r *repository) Transition(ctx context.Context, e *Entry, hist *History) error {
	start := time.Now()
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		e.UpdatedAt = time.Now()
		result, err := tx.NewUpdate().
			Model(e).
			Column("status", "served_at", "completed_at", "actual_wait_time", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrEntryNotFound
		}

		if hist != nil {
			if _, err := tx.NewInsert().Model(hist).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	r.metrics.RecordQuery(ctx, "update", "queue_entries", time.Since(start), err)
	return err
}

func (r *repository) ListHistory(ctx context.Context, serviceID int, limit int) ([]History, error) {
	if limit <= 0 {
		limit = 100
	}
	var hist []History
	q := r.db.NewSelect().
		Model(&hist).
		Order("completed_at DESC").
		Limit(limit)
	if serviceID > 0 {
		q = q.Where("service_id = ?", serviceID)
	}
	start := time.Now()
	err := q.Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "queue_history", time.Since(start), err)
	return hist, err
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
