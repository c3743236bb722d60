package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

const studentCodeRetries = 5

func bcryptCost() int {
	if cfg.BcryptCost > 0 {
		return cfg.BcryptCost
	}
	return bcrypt.DefaultCost
}

func refreshTokenTTL() time.Duration {
	if cfg.RefreshTTLDays > 0 {
		return time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

type Service struct {
	authRepo *Repository
	userRepo user.Repository
}

func NewService(authRepo *Repository, userRepo user.Repository) *Service {
	return &Service{
		authRepo: authRepo,
		userRepo: userRepo,
	}
}

// Register creates a new student account
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	// Check if email exists
	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost())
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueStudentCode(ctx, req.Course)
	if err != nil {
		return nil, err
	}

	newUser := &user.User{
		StudentCode: code,
		Email:       req.Email,
		Password:    string(hashedPassword),
		Name:        req.Name,
		Course:      req.Course,
		Year:        req.Year,
		Role:        user.RoleStudent,
		IsActive:    true,
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, created)
}

// uniqueStudentCode generates a candidate code keyed to the enrollment year
// and retries on collision; the generator is random, so collisions are rare
// but possible.
func (s *Service) uniqueStudentCode(ctx context.Context, course string) (string, error) {
	for i := 0; i < studentCodeRetries; i++ {
		code := helpers.GenerateStudentCode(time.Now().Year(), course)
		_, err := s.userRepo.GetByStudentCode(ctx, code)
		if errors.Is(err, user.ErrUserNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique student code after %d attempts", studentCodeRetries)
}

// Login authenticates a user and returns tokens
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, u)
}

// RefreshAccessToken generates a new access token using refresh token
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	refreshToken, err := s.authRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.generateTokenPair(ctx, u)
}

// Logout invalidates refresh token
func (s *Service) Logout(ctx context.Context, refreshTokenString string) error {
	return s.authRepo.DeleteRefreshToken(ctx, refreshTokenString)
}

// LogoutAll invalidates all refresh tokens for a user
func (s *Service) LogoutAll(ctx context.Context, userID int) error {
	return s.authRepo.DeleteAllUserTokens(ctx, userID)
}

// generateTokenPair creates access and refresh tokens
func (s *Service) generateTokenPair(ctx context.Context, u *user.User) (*AuthResponse, error) {
	// Access token (JWT, configurable lifetime)
	accessToken, err := GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}

	// Refresh token (random, configurable lifetime)
	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(refreshTokenTTL())
	if err := s.authRepo.CreateRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u,
	}, nil
}
