// Package auth issues and verifies the JWTs that protect the API.
package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

var (
	secret   []byte
	username string
	password string
	tokenTTL time.Duration
)

// Configure initializes the auth package from config. JWT_SECRET in the
// environment overrides the configured secret.
func Configure(cfg models.AuthConfig) error {
	s := cfg.JWTSecret
	if env := os.Getenv("JWT_SECRET"); env != "" {
		s = env
	}
	if s == "" {
		return fmt.Errorf("auth: no JWT secret configured")
	}
	secret = []byte(s)
	username = cfg.Username
	password = cfg.Password

	tokenTTL = time.Duration(cfg.TokenTTLMins) * time.Minute
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return nil
}

// GenerateToken issues a signed token for an authenticated user.
func GenerateToken(user string) (string, error) {
	claims := jwt.MapClaims{
		"sub": user,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken parses and validates a token, returning the subject.
func VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

// JWTMiddleware protects every route except the health check and login.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/api/login" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
			return
		}

		if _, err := VerifyToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
