package services

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"prfaq-backend/internal/models"
)

func setupTestRedis() (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestFindUserByIDCaches(t *testing.T) {
	db := setupTestDB()
	mr, rdb := setupTestRedis()
	defer mr.Close()

	users := NewUserService(db, rdb)
	user := createTestUser(db, "cached", 500, 100000, 0)

	got, err := users.FindUserByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(500), got.Points)

	// Mutate behind the cache; the stale profile is served until invalidated.
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("points", 999)

	got, err = users.FindUserByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(500), got.Points)

	invalidateUserCache(rdb, user.ID)

	got, err = users.FindUserByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(999), got.Points)
}

func TestFindUserByIDNotFound(t *testing.T) {
	db := setupTestDB()
	users := NewUserService(db, nil)

	_, err := users.FindUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindUsers(t *testing.T) {
	db := setupTestDB()
	users := NewUserService(db, nil)
	createTestUser(db, "one", 0, 100000, 0)
	createTestUser(db, "two", 0, 100000, 0)
	createTestUser(db, "three", 0, 100000, 0)

	list, total, err := users.FindUsers(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 2)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB()
	users := NewUserService(db, nil)
	user := createTestUser(db, "mutable", 0, 100000, 0)

	updated, err := users.UpdateUser(user.ID, map[string]interface{}{
		"daily_chars_limit": int64(50000),
		"is_active":         false,
	}, "admin")
	assert.NoError(t, err)
	assert.Equal(t, int64(50000), updated.DailyCharsLimit)
	assert.False(t, updated.IsActive)
	assert.Equal(t, user.Version+1, updated.Version)
}

func TestUpdateUserHashesPassword(t *testing.T) {
	db := setupTestDB()
	users := NewUserService(db, nil)
	user := createTestUser(db, "rekeyed", 0, 100000, 0)

	updated, err := users.UpdateUser(user.ID, map[string]interface{}{
		"password": "new-password-1",
	}, "admin")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-password-1")))
}

func TestUpdateUserRejectsLedgerFields(t *testing.T) {
	db := setupTestDB()
	users := NewUserService(db, nil)
	user := createTestUser(db, "protected", 123, 100000, 0)

	// Balance adjustments must go through the ledger, not the admin update.
	_, err := users.UpdateUser(user.ID, map[string]interface{}{"points": int64(1)}, "admin")
	assert.Error(t, err)

	var unchanged models.User
	db.First(&unchanged, user.ID)
	assert.Equal(t, int64(123), unchanged.Points)
}

func TestUpdateUserNotFound(t *testing.T) {
	db := setupTestDB()
	users := NewUserService(db, nil)

	_, err := users.UpdateUser(9999, map[string]interface{}{"is_active": false}, "admin")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
