package user_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	adminUser "prfaq-backend/internal/api/v1/admin/user"
	"prfaq-backend/internal/models"
	"prfaq-backend/internal/services"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.Migrator().DropTable(&models.User{}, &models.PointTransaction{}, &models.Bill{})
	if err := db.AutoMigrate(&models.User{}, &models.PointTransaction{}, &models.Bill{}); err != nil {
		panic("failed to migrate database")
	}
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := services.NewUserService(db, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("operator", "root")
		c.Next()
	})

	admin := router.Group("/api/v1/admin")
	adminUser.RegisterRoutes(admin, adminUser.NewHandler(users))
	return router
}

func TestListUsers(t *testing.T) {
	db := setupTestDB()
	for i := 0; i < 3; i++ {
		db.Create(&models.User{
			Username:        fmt.Sprintf("user%d", i),
			Password:        "x",
			Points:          int64(i * 100),
			DailyCharsLimit: 100000,
			IsActive:        true,
			Version:         1,
		})
	}

	router := setupRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users?page=1&limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                        `json:"status"`
		Data   adminUser.UserListResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Data.Total)
	assert.Len(t, resp.Data.Users, 2)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB()
	u := models.User{Username: "target", Password: "x", DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&u)

	router := setupRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"daily_chars_limit": 50000,
		"is_active":         false,
	})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/admin/users/%d", u.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	db.First(&updated, u.ID)
	assert.Equal(t, int64(50000), updated.DailyCharsLimit)
	assert.False(t, updated.IsActive)
}

func TestUpdateUserNotFound(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db)

	body, _ := json.Marshal(map[string]interface{}{"is_active": false})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/9999", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserEmptyBody(t *testing.T) {
	db := setupTestDB()
	u := models.User{Username: "target", Password: "x", DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&u)

	router := setupRouter(db)

	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/admin/users/%d", u.ID), bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
