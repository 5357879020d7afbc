package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"prfaq-backend/config"
	adminPoints "prfaq-backend/internal/api/v1/admin/points"
	adminUser "prfaq-backend/internal/api/v1/admin/user"
	"prfaq-backend/internal/api/v1/auth"
	"prfaq-backend/internal/api/v1/points"
	"prfaq-backend/internal/api/v1/usage"
	"prfaq-backend/internal/middleware"
	"prfaq-backend/internal/services"
)

// NewRouter wires the HTTP surface from injected handles. It opens no
// connections of its own, which is what lets the tests run it against an
// in-memory store.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) *gin.Engine {
	userSvc := services.NewUserService(db, rdb)
	authSvc := services.NewAuthService(db, cfg.JWTSecret, cfg.DefaultDailyCharsLimit)
	ledgerSvc := services.NewLedgerService(db, rdb, cfg.JWTSecret, cfg.Location(), cfg.DailyLoginBonusPoints, log)
	quotaSvc := services.NewQuotaService(db)
	txSvc := services.NewTransactionService(db)
	billingSvc := services.NewBillingService(db, ledgerSvc, cfg.UnitPrice, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum age for preflight requests
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, auth.NewHandler(authSvc))

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware(cfg.JWTSecret, userSvc))
		{
			points.RegisterRoutes(authorized, points.NewHandler(ledgerSvc, quotaSvc, txSvc))
			usage.RegisterRoutes(authorized, usage.NewHandler(billingSvc))
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret, userSvc))
		{
			adminUser.RegisterRoutes(admin, adminUser.NewHandler(userSvc))
			adminPoints.RegisterRoutes(admin, adminPoints.NewHandler(ledgerSvc, txSvc))
		}
	}

	return router
}
