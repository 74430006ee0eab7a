package utils

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/golang-jwt/jwt/v4"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is what the API trusts from a bearer token.
type TokenClaims struct {
	UserID int
	Role   string
	Name   string
}

func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func GenerateToken(secret []byte, user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"name":    user.Name,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and extracts its claims.
func ParseToken(secret []byte, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	// JSON numbers decode as float64.
	idRaw, ok := claims["user_id"].(float64)
	if !ok || idRaw <= 0 {
		return nil, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)

	return &TokenClaims{UserID: int(idRaw), Role: role, Name: name}, nil
}
