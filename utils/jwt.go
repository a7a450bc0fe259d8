package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultJWTSecret = "projectflow-dev-secret"

var (
	jwtSecret   = []byte(defaultJWTSecret)
	jwtTTL      = 24 * time.Hour
	jwtIssuer   = "projectflow"
	ErrBadToken = errors.New("invalid or expired token")
)

// ConfigureJWT sets the signing secret, token lifetime and issuer. An empty
// secret keeps the development default.
func ConfigureJWT(secret string, ttlHours int, issuer string) {
	if secret == "" {
		InfoLogger.Warn("JWT secret not configured, using default development secret")
		secret = defaultJWTSecret
	}
	jwtSecret = []byte(secret)
	if ttlHours > 0 {
		jwtTTL = time.Duration(ttlHours) * time.Hour
	}
	if issuer != "" {
		jwtIssuer = issuer
	}
}

type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(userID uint, role string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrBadToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
