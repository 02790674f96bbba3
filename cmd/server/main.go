package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edutrack-backend-go/internal/api"
	"edutrack-backend-go/internal/config"
	"edutrack-backend-go/internal/core"
	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/middleware"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Load Application Configuration ---
	appConfig, err := config.Load()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Connect to MongoDB ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInitCtx()

	store, err := db.Connect(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Disconnect(disconnectCtx); err != nil {
			zapLogger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	database := store.Database()
	zapLogger.Info("Connected to MongoDB successfully.", zap.String("database", appConfig.MongoDatabase))

	// --- 4. Initialize Repositories ---
	userRepo := db.NewMongoUserRepository(database)
	regionRepo := db.NewMongoRegionRepository(database)
	schoolRepo := db.NewMongoSchoolRepository(database)
	locationRepo := db.NewMongoLocationRepository(database)
	deviceRepo := db.NewMongoDeviceRepository(database)
	deviceLogRepo := db.NewMongoDeviceLogRepository(database)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 5. Ensure Indexes ---
	if err := db.EnsureUserIndexes(initCtx, database); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to create user indexes", zap.Error(err))
	}
	if err := deviceLogRepo.EnsureIndexes(initCtx); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to create device log indexes", zap.Error(err))
	}
	zapLogger.Info("MongoDB indexes ensured.")

	// --- 6. Initialize Services ---
	authService := core.NewAuthService(userRepo, schoolRepo, appConfig.JWTSecret, appConfig.TokenTTL)
	userService := core.NewUserService(userRepo, schoolRepo, appConfig.BcryptCost)
	regionService := core.NewRegionService(regionRepo, schoolRepo)
	schoolService := core.NewSchoolService(schoolRepo, regionRepo, locationRepo)
	locationService := core.NewLocationService(locationRepo, schoolRepo, deviceRepo)
	activityService := core.NewActivityService(deviceLogRepo, deviceRepo, userRepo, zapLogger)
	deviceService := core.NewDeviceService(deviceRepo, locationRepo, schoolRepo, activityService)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	// gin.New() keeps the middleware stack under our control.
	router := gin.New()

	// --- 8. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 9. Setup API Routes ---
	api.SetupRoutes(
		router,
		zapLogger,
		authService,
		userService,
		regionService,
		schoolService,
		locationService,
		deviceService,
		activityService,
	)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
