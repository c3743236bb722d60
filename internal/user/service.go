package user

import (
	"context"
	"errors"
	"strings"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("student code or email already in use")
	ErrInvalidInput  = errors.New("invalid input")
)

type Service interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	SetUserActive(ctx context.Context, id int, active bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateUser(ctx context.Context, u *User) (*User, error) {
	u.StudentCode = strings.ToUpper(strings.TrimSpace(u.StudentCode))
	if !helpers.IsValidStudentCode(u.StudentCode) {
		return nil, ErrInvalidInput
	}
	if u.Email != "" && !helpers.IsValidEmail(u.Email) {
		return nil, ErrInvalidInput
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if !u.Role.Valid() {
		return nil, ErrInvalidInput
	}
	u.IsActive = true
	return s.repo.Create(ctx, u)
}

func (s *service) GetAllUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetUserByID(ctx context.Context, id int) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, u *User) error {
	if u.ID <= 0 {
		return ErrInvalidInput
	}
	if u.Role != "" && !u.Role.Valid() {
		return ErrInvalidInput
	}
	return s.repo.Update(ctx, u)
}

func (s *service) SetUserActive(ctx context.Context, id int, active bool) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.SetActive(ctx, id, active)
}
