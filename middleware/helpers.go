package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/utils"
)

var errNoClaims = errors.New("user claims not found in context or invalid type")

// WithClaims stores claims the way Authenticate does.
func WithClaims(ctx context.Context, claims *utils.TokenClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func claimsFromContext(ctx context.Context) (*utils.TokenClaims, error) {
	claims, ok := ctx.Value(userContextKey).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, errNoClaims
	}
	return claims, nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	if claims.UserID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in claims: %d", claims.UserID)
	}
	return claims.UserID, nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}

	switch claims.Role {
	case models.RoleAdmin, models.RoleOrganizer:
		return claims.Role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", claims.Role)
	}
}
