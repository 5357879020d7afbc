package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prfaq-backend/internal/models"
	"prfaq-backend/internal/utils"
)

var ErrUserAlreadyExists = errors.New("user with this username already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration and login. New users start with zero
// points and the configured daily character limit.
type AuthService struct {
	db              *gorm.DB
	jwtSecret       string
	defaultDayLimit int64
}

func NewAuthService(db *gorm.DB, jwtSecret string, defaultDailyCharsLimit int64) *AuthService {
	return &AuthService{
		db:              db,
		jwtSecret:       jwtSecret,
		defaultDayLimit: defaultDailyCharsLimit,
	}
}

func (s *AuthService) Register(username, password string) (*models.User, error) {
	// Check if user already exists
	var existingUser models.User
	result := s.db.Where("username = ?", username).First(&existingUser)
	if result.Error == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var userCount int64
	s.db.Model(&models.User{}).Count(&userCount)

	role := "user"
	if userCount == 0 {
		role = "admin"
	}

	user := &models.User{
		Username:        username,
		Password:        string(hashedPassword),
		Role:            role,
		Points:          0,
		DailyCharsLimit: s.defaultDayLimit,
		IsActive:        true,
		Version:         1,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}
