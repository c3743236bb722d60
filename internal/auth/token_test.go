package auth_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/auth"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/config"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv("JWT_SECRET")

	u := &user.User{ID: 42, Email: "alice@school.edu", Role: user.RoleStudent}

	token, err := auth.GenerateAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice@school.edu", claims.Email)
	assert.Equal(t, user.RoleStudent, claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "original-secret")
	u := &user.User{ID: 1, Email: "a@school.edu", Role: user.RoleStudent}

	token, err := auth.GenerateAccessToken(u)
	require.NoError(t, err)

	os.Setenv("JWT_SECRET", "rotated-secret")
	defer os.Unsetenv("JWT_SECRET")

	_, err = auth.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv("JWT_SECRET")

	_, err := auth.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestConfiguredAuthSettings(t *testing.T) {
	// Secret and TTL come from the loaded config, not the environment.
	os.Unsetenv("JWT_SECRET")
	auth.Configure(config.AuthConfig{
		JWTSecret:        "configured-secret",
		AccessTTLMinutes: 1,
	})
	defer auth.Configure(config.AuthConfig{})

	u := &user.User{ID: 7, Email: "b@school.edu", Role: user.RoleStaff}

	token, err := auth.GenerateAccessToken(u)
	require.NoError(t, err)

	claims, err := auth.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := auth.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := auth.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
