package user

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
	Create(ctx context.Context, u *User) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByStudentCode(ctx context.Context, code string) (*User, error)
	Update(ctx context.Context, u *User) error
	SetActive(ctx context.Context, id int, active bool) error
	UpsertByEmail(ctx context.Context, u *User) error
	UpsertByStudentCode(ctx context.Context, u *User) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(u).Returning("*").Exec(ctx)
	r.metrics.RecordQuery(ctx, "insert", "users", time.Since(start), err)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) GetAll(ctx context.Context) ([]User, error) {
	var users []User
	start := time.Now()
	err := r.db.NewSelect().Model(&users).Order("id ASC").Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "users", time.Since(start), err)
	return users, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*User, error) {
	u := new(User)
	start := time.Now()
	err := r.db.NewSelect().Model(u).Where("id = ?", id).Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "users", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u := new(User)
	start := time.Now()
	err := r.db.NewSelect().Model(u).Where("email = ?", email).Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "users", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) GetByStudentCode(ctx context.Context, code string) (*User, error) {
	u := new(User)
	start := time.Now()
	err := r.db.NewSelect().Model(u).Where("student_code = ?", code).Scan(ctx)
	r.metrics.RecordQuery(ctx, "select", "users", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Update writes the profile columns only. The password hash and creation
// timestamp are never touched here so a partially filled model cannot
// blank them.
func (r *repository) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(u).
		Column("student_code", "email", "name", "course", "year", "role", "is_active", "updated_at").
		WherePK().
		Exec(ctx)
	r.metrics.RecordQuery(ctx, "update", "users", time.Since(start), err)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetActive soft-disables or re-enables an account. Users are never hard
// deleted in normal operation.
func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.RecordQuery(ctx, "update", "users", time.Since(start), err)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpsertByEmail inserts or refreshes a user keyed by email. Used by seed
// tooling so reseeding stays idempotent.
func (r *repository) UpsertByEmail(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()
	start := time.Now()
	_, err := r.db.NewInsert().
		Model(u).
		On("CONFLICT (email) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("course = EXCLUDED.course").
		Set("year = EXCLUDED.year").
		Set("role = EXCLUDED.role").
		Set("is_active = EXCLUDED.is_active").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	r.metrics.RecordQuery(ctx, "upsert", "users", time.Since(start), err)
	return err
}

// UpsertByStudentCode inserts or refreshes a user keyed by student code.
func (r *repository) UpsertByStudentCode(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()
	start := time.Now()
	_, err := r.db.NewInsert().
		Model(u).
		On("CONFLICT (student_code) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("course = EXCLUDED.course").
		Set("year = EXCLUDED.year").
		Set("role = EXCLUDED.role").
		Set("is_active = EXCLUDED.is_active").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	r.metrics.RecordQuery(ctx, "upsert", "users", time.Since(start), err)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
