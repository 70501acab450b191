package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authzerrors "go-hris-workflow/internal/authz/errors"
	"go-hris-workflow/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller as resolved from server-verified claims. It is
// never built from request bodies.
type Identity struct {
	ID     string
	Name   string
	Email  string
	Role   domain.Role
	TeamID string
}

// Is reports whether ref names this caller, by display name or id.
func (i Identity) Is(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	return strings.EqualFold(ref, strings.TrimSpace(i.Name)) || strings.EqualFold(ref, i.ID)
}

//go:generate mockgen -source=identity.go -destination=mock/identity_mock.go -package=mock
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, authzerrors.ErrTokenMissing
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, authzerrors.ErrTokenExpired
		}
		return Identity{}, authzerrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, authzerrors.ErrInvalidToken
	}

	userID := stringClaim(claims, "user_id")
	if userID == "" {
		userID = stringClaim(claims, "sub")
	}
	if userID == "" {
		return Identity{}, authzerrors.ErrInvalidToken
	}

	return Identity{
		ID:     userID,
		Name:   stringClaim(claims, "name"),
		Email:  stringClaim(claims, "email"),
		Role:   domain.ParseRole(stringClaim(claims, "role")),
		TeamID: stringClaim(claims, "team_id"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return strings.TrimSpace(v)
}
