package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pavelgrishin/worklink-backend/internal/models"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := testTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.RoleHirer}

	pair, refreshExp, err := tm.GeneratePair(user)
	assert.NoError(t, err)
	assert.True(t, refreshExp.After(time.Now()))

	claims, err := tm.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleHirer, claims.Role)

	userID, err := tm.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenManager_ParseAccess_WrongSecret(t *testing.T) {
	tm := testTokenManager()
	other := NewTokenManager("another-secret", "another-refresh", time.Minute, time.Hour)

	pair, _, err := tm.GeneratePair(&models.User{ID: uuid.New(), Role: models.RoleFreelancer})
	assert.NoError(t, err)

	_, err = other.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_ParseAccess_Expired(t *testing.T) {
	tm := NewTokenManager("secret", "refresh", -time.Minute, time.Hour)

	pair, _, err := tm.GeneratePair(&models.User{ID: uuid.New()})
	assert.NoError(t, err)

	_, err = tm.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_RefreshNotValidAsAccess(t *testing.T) {
	tm := testTokenManager()

	pair, _, err := tm.GeneratePair(&models.User{ID: uuid.New()})
	assert.NoError(t, err)

	// Токены подписаны разными секретами.
	_, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
