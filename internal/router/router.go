package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"game-board-api/internal/cache"
	"game-board-api/internal/handler"
	"game-board-api/internal/metrics"
	"game-board-api/internal/middleware"
	"game-board-api/internal/repository"
	"game-board-api/internal/service"
)

// Config holds the dependencies for router setup
type Config struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	JWTSecret      string
	TokenValidator middleware.TokenValidator
	NameResolver   service.NameResolver
	AllowedOrigins []string
	BasePath       string
}

// Setup builds the Gin engine with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Initialize services
	boardRepo := repository.NewBoardRepository(cfg.DB)
	codeGen := service.NewCodeGenerator()

	var codeCache service.CodeCache
	if cfg.Redis != nil {
		codeCache = cache.NewCodeCache(cfg.Redis, cfg.Logger)
	}

	membershipService := service.NewMembershipService(
		boardRepo,
		codeGen,
		codeCache,
		cfg.NameResolver,
		cfg.Metrics,
		cfg.Logger,
	)

	// Initialize handlers
	boardHandler := handler.NewBoardHandler(membershipService)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	// Health and metrics endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Prefer auth-service validation, fall back to local JWT verification
	var auth gin.HandlerFunc
	if cfg.TokenValidator != nil {
		auth = middleware.AuthWithValidator(cfg.TokenValidator)
	} else {
		auth = middleware.Auth(cfg.JWTSecret)
	}

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api"
	}

	api := r.Group(basePath)
	{
		boards := api.Group("/boards")
		boards.Use(auth)
		{
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("", boardHandler.ListBoards)
			boards.POST("/join", boardHandler.JoinBoard)
			boards.GET("/:boardId", boardHandler.GetBoard)
			boards.DELETE("/:boardId", boardHandler.DeleteBoard)
			boards.DELETE("/:boardId/leave", boardHandler.LeaveBoard)
		}
	}

	return r
}
