package user_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/auth"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/config"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"
)

type fakeUserService struct{}

func (fakeUserService) CreateUser(_ context.Context, u *user.User) (*user.User, error) {
	u.ID = 1
	return u, nil
}
func (fakeUserService) GetAllUsers(context.Context) ([]user.User, error) { return nil, nil }
func (fakeUserService) GetUserByID(_ context.Context, id int) (*user.User, error) {
	return &user.User{ID: id}, nil
}
func (fakeUserService) UpdateUser(context.Context, *user.User) error   { return nil }
func (fakeUserService) SetUserActive(context.Context, int, bool) error { return nil }

// newUserRouter mirrors the application wiring: reads behind the session
// middleware, mutations behind the ADMIN role group.
func newUserRouter() chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := user.NewHandler(fakeUserService{}, logger, nil)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Use(auth.Middleware(logger))
		handler.RegisterRoutes(api)
		api.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(logger, user.RoleAdmin))
			handler.RegisterAdminRoutes(admin)
		})
	})
	return r
}

func doRequest(t *testing.T, router chi.Router, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUserRoutes_RoleGating(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	auth.Configure(config.AuthConfig{JWTSecret: "handler-test-secret"})
	defer auth.Configure(config.AuthConfig{})

	router := newUserRouter()

	studentToken, err := auth.GenerateAccessToken(&user.User{ID: 2, Email: "s@school.edu", Role: user.RoleStudent})
	require.NoError(t, err)
	adminToken, err := auth.GenerateAccessToken(&user.User{ID: 1, Email: "a@school.edu", Role: user.RoleAdmin})
	require.NoError(t, err)

	createBody := `{"studentCode":"20C1001","name":"Alice Banda","role":"STUDENT"}`

	t.Run("NoSession_Unauthorized", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/users", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Student_CanRead", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/users", "", studentToken)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/api/users/2", "", studentToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Student_CannotMutate", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/users", createBody, studentToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = doRequest(t, router, http.MethodPut, "/api/users/2", createBody, studentToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = doRequest(t, router, http.MethodPut, "/api/users/2/active", `{"isActive":false}`, studentToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Admin_CanMutate", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/users", createBody, adminToken)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = doRequest(t, router, http.MethodPut, "/api/users/2/active", `{"isActive":false}`, adminToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
