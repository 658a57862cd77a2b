package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cover-chain.backend/internal/config"
	"cover-chain.backend/internal/infrastructure/blockchain"
	"cover-chain.backend/internal/infrastructure/jobs"
	"cover-chain.backend/internal/infrastructure/models"
	"cover-chain.backend/internal/infrastructure/oracle"
	"cover-chain.backend/internal/infrastructure/repositories"
	"cover-chain.backend/internal/interfaces/http/handlers"
	"cover-chain.backend/internal/interfaces/http/middleware"
	"cover-chain.backend/internal/usecases"
	"cover-chain.backend/pkg/jwt"
	"cover-chain.backend/pkg/logger"
	"cover-chain.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newEVMClient = blockchain.NewEVMClient
	runServer    = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB     = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (bridge endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
		if err := db.AutoMigrate(&models.BridgeMessage{}); err != nil {
			return fmt.Errorf("failed to migrate bridge message schema: %w", err)
		}
	}

	// Initialize JWT service
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize repositories
	bridgeMessageRepo := repositories.NewBridgeMessageRepository(db)

	// Optional bridge contract access: without an RPC URL the coordinator
	// serves closed-form fee estimates and the observer only enforces the
	// confirmation window.
	var evmClient *blockchain.EVMClient
	var feeQuoter usecases.FeeQuoter
	if cfg.Bridge.RPCURL != "" {
		evmClient, err = newEVMClient(cfg.Bridge.RPCURL)
		if err != nil {
			log.Printf("⚠️ Bridge RPC not available: %v (using closed-form fee estimates)", err)
		} else if cfg.Bridge.ContractAddress != "" {
			feeQuoter = blockchain.NewBridgeFeeQuoter(evmClient, cfg.Bridge.ContractAddress)
		}
	}

	// Initialize usecases
	registry := usecases.NewChainRegistry(config.DefaultChains())
	riskEngine := usecases.NewRiskEngine()
	priceClient := oracle.NewClient(oracle.ClientOptions{
		BaseURL: cfg.Oracle.BaseURL,
		Timeout: cfg.Oracle.Timeout,
	})
	aggregator := usecases.NewPriceAggregator(priceClient, config.DefaultFeedIDs(), config.DefaultFallbackPrices(), cfg.Oracle.CacheTTL)
	coordinator := usecases.NewBridgeCoordinator(registry, bridgeMessageRepo, feeQuoter, usecases.DefaultBridgeFeePolicy())

	// Initialize handlers
	quoteHandler := handlers.NewQuoteHandler(riskEngine)
	priceHandler := handlers.NewPriceHandler(aggregator)
	chainHandler := handlers.NewChainHandler(registry)
	bridgeHandler := handlers.NewBridgeHandler(coordinator)
	coverageHandler := handlers.NewCoverageHandler()
	authorizationHandler := handlers.NewAuthorizationHandler()

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	observerJob := jobs.NewBridgeEventObserverJob(coordinator, bridgeMessageRepo, evmClient, cfg.Bridge.ContractAddress, cfg.Bridge.ConfirmationWindow)
	go observerJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		quoteHandler:         quoteHandler,
		priceHandler:         priceHandler,
		chainHandler:         chainHandler,
		bridgeHandler:        bridgeHandler,
		coverageHandler:      coverageHandler,
		authorizationHandler: authorizationHandler,
		authMiddleware:       middleware.AuthMiddleware(jwtService),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		observerJob.Stop()
		if evmClient != nil {
			evmClient.Close()
		}
		cancel()
	}()

	// Start server
	log.Printf("🚀 Cover-Chain Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
