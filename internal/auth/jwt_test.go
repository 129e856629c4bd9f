package auth

import (
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	cid := int64(42)

	signed, err := tokens.Issue(&model.User{ID: 7, Role: model.RoleCustomer}, &cid)
	require.NoError(t, err)

	actor, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), actor.UserID)
	assert.Equal(t, model.RoleCustomer, actor.Role)
	require.NotNil(t, actor.CustomerID)
	assert.Equal(t, cid, *actor.CustomerID)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issued, err := NewTokenManager("secret-a", time.Hour).Issue(&model.User{ID: 1, Role: model.RoleAdmin}, nil)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tokens := NewTokenManager("test-secret", -time.Minute)

	signed, err := tokens.Issue(&model.User{ID: 1, Role: model.RoleTrainer}, nil)
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("super-secret-pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "super-secret-pw"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
