package authz_test

import (
	"context"
	"testing"
	"time"

	"go-hris-workflow/internal/authz"
	authzerrors "go-hris-workflow/internal/authz/errors"
	"go-hris-workflow/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTVerifier_Verify(t *testing.T) {
	ctx := context.Background()
	v := authz.NewJWTVerifier(testSecret)

	t.Run("success normalizes role", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": "tl-1",
			"name":    "Tia Lead",
			"email":   "tia@example.com",
			"role":    "Team Lead",
			"team_id": "team-a",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		id, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, authz.Identity{
			ID:     "tl-1",
			Name:   "Tia Lead",
			Email:  "tia@example.com",
			Role:   domain.RoleTeamLead,
			TeamID: "team-a",
		}, id)
	})

	t.Run("sub fallback and unknown role", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"sub": "emp-1", "role": "intern"})
		id, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "emp-1", id.ID)
		assert.Equal(t, domain.RoleUser, id.Role)
	})

	t.Run("negative missing token", func(t *testing.T) {
		_, err := v.Verify(ctx, "")
		assert.ErrorIs(t, err, authzerrors.ErrTokenMissing)
	})

	t.Run("negative wrong secret", func(t *testing.T) {
		token := signToken(t, "other", jwt.MapClaims{"user_id": "x"})
		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, authzerrors.ErrInvalidToken)
	})

	t.Run("negative expired", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"user_id": "x", "exp": time.Now().Add(-time.Hour).Unix()})
		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, authzerrors.ErrTokenExpired)
	})

	t.Run("negative missing user id", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"role": "hr"})
		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, authzerrors.ErrInvalidToken)
	})
}

func TestIdentity_Is(t *testing.T) {
	id := authz.Identity{ID: "u-1", Name: "Hana HR"}
	assert.True(t, id.Is("hana hr"))
	assert.True(t, id.Is("U-1"))
	assert.False(t, id.Is(""))
	assert.False(t, id.Is("someone"))
}
