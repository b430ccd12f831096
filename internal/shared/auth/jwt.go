// Package auth signs and verifies the HS256 tokens used to identify users.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"docuhub-backend/internal/shared/apperr"
)

// Claims is the identity carried by a token.
type Claims struct {
	UserID string
	Email  string
	Name   string
}

// Sign issues a token for the given claims, valid for ttl.
func Sign(secret string, claims Claims, ttl time.Duration) (string, error) {
	if claims.UserID == "" {
		return "", fmt.Errorf("user id is required")
	}
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": claims.UserID,
		"email":  claims.Email,
		"name":   claims.Name,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func Verify(secret, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	claims := Claims{
		UserID: stringClaim(mapClaims, "userId"),
		Email:  stringClaim(mapClaims, "email"),
		Name:   stringClaim(mapClaims, "name"),
	}
	if claims.UserID == "" {
		return Claims{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if raw, ok := claims[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}
