package points_test

import (
	"bytes"
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

	adminPoints "prfaq-backend/internal/api/v1/admin/points"
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

	ledger := services.NewLedgerService(db, nil, "test_secret", time.Local, 100, zap.NewNop())
	txs := services.NewTransactionService(db)

	router := gin.New()
	// Stand-in for the admin auth middleware.
	router.Use(func(c *gin.Context) {
		c.Set("operator", "root")
		c.Next()
	})

	admin := router.Group("/api/v1/admin")
	adminPoints.RegisterRoutes(admin, adminPoints.NewHandler(ledger, txs))
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminCredit(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "target", Password: "x", Points: 100, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db)

	w := postJSON(router, "/api/v1/admin/points/credit", adminPoints.AdjustInput{
		UserID: user.ID,
		Amount: 500,
		Reason: "compensation for outage",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                      `json:"status"`
		Data   adminPoints.AdjustResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(500), resp.Data.Amount)
	assert.Equal(t, int64(600), resp.Data.Balance)

	// Audited as an admin entry with operator and reason.
	var entry models.PointTransaction
	db.Last(&entry)
	assert.Equal(t, models.TransactionTypeAdmin, entry.Type)
	assert.Equal(t, "root", entry.Operator)
	assert.Equal(t, "compensation for outage", entry.Description)
}

func TestAdminCreditRequiresReason(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "target", Password: "x", Points: 100, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db)

	w := postJSON(router, "/api/v1/admin/points/credit", map[string]interface{}{
		"user_id": user.ID,
		"amount":  500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminDebit(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "target", Password: "x", Points: 1000, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db)

	w := postJSON(router, "/api/v1/admin/points/debit", adminPoints.AdjustInput{
		UserID: user.ID,
		Amount: 400,
		Reason: "chargeback",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	db.First(&updated, user.ID)
	assert.Equal(t, int64(600), updated.Points)
}

func TestAdminDebitInsufficientBalance(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "target", Password: "x", Points: 100, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	router := setupRouter(db)

	w := postJSON(router, "/api/v1/admin/points/debit", adminPoints.AdjustInput{
		UserID: user.ID,
		Amount: 400,
		Reason: "chargeback",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var updated models.User
	db.First(&updated, user.ID)
	assert.Equal(t, int64(100), updated.Points)
}

func TestAdminAdjustUnknownUser(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db)

	w := postJSON(router, "/api/v1/admin/points/credit", adminPoints.AdjustInput{
		UserID: 9999,
		Amount: 10,
		Reason: "ghost",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTransactions(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "listed", Password: "x", Points: 0, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	ledger := services.NewLedgerService(db, nil, "test_secret", time.Local, 100, zap.NewNop())
	ledger.Credit(user.ID, 500, models.TransactionTypeReward, "bonus", "system")
	ledger.Debit(user.ID, 200, models.TransactionTypeConsume, "pr_gen", "system")

	router := setupRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/transactions?page=1&limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                                 `json:"status"`
		Data   adminPoints.TransactionListResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Data.Total)
}

func TestExportTransactions(t *testing.T) {
	db := setupTestDB()
	user := models.User{Username: "exported", Password: "x", Points: 0, DailyCharsLimit: 100000, IsActive: true, Version: 1}
	db.Create(&user)

	ledger := services.NewLedgerService(db, nil, "test_secret", time.Local, 100, zap.NewNop())
	ledger.Credit(user.ID, 500, models.TransactionTypeReward, "bonus", "system")

	router := setupRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/transactions/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "reward")
}
