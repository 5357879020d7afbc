package points_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"prfaq-backend/internal/api/v1/points"
	"prfaq-backend/internal/models"
	"prfaq-backend/internal/services"
	"prfaq-backend/internal/utils"
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

func setupRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)

	ledger := services.NewLedgerService(db, nil, "test_secret", time.Local, 100, zap.NewNop())
	quota := services.NewQuotaService(db)
	txs := services.NewTransactionService(db)

	router := gin.New()
	// Stand-in for the auth middleware: pin the authenticated user.
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	v1 := router.Group("/api/v1")
	points.RegisterRoutes(v1, points.NewHandler(ledger, quota, txs))
	return router
}

func TestGetBalance(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "bal", Password: "x", Points: 10500, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db, user.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/points/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                    `json:"status"`
		Data   points.BalanceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(10500), resp.Data.Points)
}

func TestGetHistory(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "hist", Password: "x", Points: 0, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db, user.ID)

	ledger := services.NewLedgerService(db, nil, "test_secret", time.Local, 100, zap.NewNop())
	ledger.Credit(user.ID, 500, models.TransactionTypeReward, "bonus", "system")
	ledger.Debit(user.ID, 200, models.TransactionTypeConsume, "pr_gen", "system")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/points/history?page=1&limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                    `json:"status"`
		Data   points.HistoryResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Data.Total)
	assert.Len(t, resp.Data.Transactions, 2)
	// Newest first
	assert.Equal(t, int64(-200), resp.Data.Transactions[0].Amount)
	assert.Equal(t, int64(300), resp.Data.Transactions[0].Balance)
}

func TestGetUsage(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "use", Password: "x", Points: 750, DailyCharsLimit: 50000, UsedCharsToday: 1200, TotalChars: 9001, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db, user.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/points/usage", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                   `json:"status"`
		Data   services.UsageSummary `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(750), resp.Data.Points)
	assert.Equal(t, int64(1200), resp.Data.UsedCharsToday)
	assert.Equal(t, int64(50000), resp.Data.DailyCharsLimit)
}

func TestClaimDailyBonus(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "bonus", Password: "x", Points: 0, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db, user.ID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/points/daily-bonus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                       `json:"status"`
		Data   points.DailyBonusResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.Data.Amount)
	assert.Equal(t, int64(100), resp.Data.Balance)

	// Second claim the same day conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/points/daily-bonus", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var errResp utils.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Message, "already claimed")
}
