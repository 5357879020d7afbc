package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	db := setupTestDB()
	auth := NewAuthService(db, testSecret, 100000)

	// First registered account becomes the admin.
	u, err := auth.Register("founder", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, int64(0), u.Points)
	assert.Equal(t, int64(100000), u.DailyCharsLimit)
	assert.True(t, u.IsActive)

	u2, err := auth.Register("second", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "user", u2.Role)

	_, err = auth.Register("founder", "password123")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	db := setupTestDB()
	auth := NewAuthService(db, testSecret, 100000)

	auth.Register("login-user", "password123")

	token, u, err := auth.Login("login-user", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "login-user", u.Username)

	_, _, err = auth.Login("login-user", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
