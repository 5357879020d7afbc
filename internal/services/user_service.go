package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prfaq-backend/internal/models"
)

var ErrOptimisticLock = errors.New("data has been modified by another user, please refresh and try again")

// UserService reads and administers user accounts. Balance and usage counters
// are off limits here; those belong to the ledger, billing and reset
// components.
type UserService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewUserService(db *gorm.DB, rdb *redis.Client) *UserService {
	return &UserService{db: db, rdb: rdb}
}

func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// invalidateUserCache drops the cached profile after any mutation of the user
// row, wherever that mutation happens.
func invalidateUserCache(rdb *redis.Client, userID uint) {
	if rdb != nil {
		rdb.Del(context.Background(), userCacheKey(userID))
	}
}

func (s *UserService) FindUserByID(userID uint) (models.User, error) {
	// Try cache
	cacheKey := userCacheKey(userID)
	if s.rdb != nil {
		val, err := s.rdb.Get(context.Background(), cacheKey).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}

	// Set cache
	if s.rdb != nil {
		if data, err := json.Marshal(user); err == nil {
			s.rdb.Set(context.Background(), cacheKey, data, time.Hour)
		}
	}

	return user, nil
}

// FindUsers retrieves a paginated list of users.
func (s *UserService) FindUsers(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	offset := (page - 1) * limit

	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// adminUpdatableFields is the whitelist for UpdateUser. Points and the usage
// counters are deliberately absent: admins adjust balances through the ledger
// so every change leaves an audit trail.
var adminUpdatableFields = map[string]bool{
	"daily_chars_limit": true,
	"is_active":         true,
	"password":          true,
	"role":              true,
}

// UpdateUser updates a user with optimistic locking and selective fields.
func (s *UserService) UpdateUser(id uint, updates map[string]interface{}, operator string) (*models.User, error) {
	for field := range updates {
		if !adminUpdatableFields[field] {
			return nil, fmt.Errorf("field %q is not updatable", field)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// Password handling
		if password, ok := updates["password"].(string); ok && password != "" {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			updates["password"] = string(hashedPassword)
		}

		// Optimistic lock check: the version predicate makes the update
		// atomic with respect to concurrent admin edits.
		currentVersion := user.Version
		updates["version"] = currentVersion + 1

		result := tx.Model(&user).Where("version = ?", currentVersion).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOptimisticLock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateUserCache(s.rdb, id)
	zap.L().Info("user updated by admin",
		zap.Uint("user_id", id),
		zap.String("operator", operator))

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
