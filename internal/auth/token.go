package auth

import (
	"errors"
	"os"
	"time"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/config"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// cfg holds the auth settings loaded at startup. Zero values fall back to
// the JWT_SECRET environment variable and built-in defaults, so tests and
// standalone tools work without a config file.
var cfg config.AuthConfig

// Configure installs the auth settings from the loaded configuration.
func Configure(c config.AuthConfig) {
	cfg = c
}

func accessTokenTTL() time.Duration {
	if cfg.AccessTTLMinutes > 0 {
		return time.Duration(cfg.AccessTTLMinutes) * time.Minute
	}
	return 15 * time.Minute
}

// Claims carried in the access token.
type Claims struct {
	UserID int       `json:"userId"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret)
	}
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateAccessToken creates a signed JWT for the user.
func GenerateAccessToken(u *user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateAccessToken parses and verifies a JWT, returning its claims.
func ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateRefreshToken creates an opaque random refresh token.
func GenerateRefreshToken() (string, error) {
	return helpers.GenerateSecureRandom(32)
}
