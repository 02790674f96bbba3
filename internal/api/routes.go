package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edutrack-backend-go/internal/core"
	"edutrack-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (Logging, Recovery, CORS) is applied to the
// router instance before this function is called, in main.go.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authService core.AuthService,
	userService core.UserService,
	regionService core.RegionService,
	schoolService core.SchoolService,
	locationService core.LocationService,
	deviceService core.DeviceService,
	activityService core.ActivityService,
) {
	authMW := middleware.NewAuthMiddleware(authService)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	regionHandler := NewRegionHandler(regionService)
	schoolHandler := NewSchoolHandler(schoolService)
	locationHandler := NewLocationHandler(locationService)
	deviceHandler := NewDeviceHandler(deviceService)
	deviceLogHandler := NewDeviceLogHandler(activityService)

	apiV1 := router.Group("/api/v1")
	{
		// --- Authentication Endpoints ---
		authGroup := apiV1.Group("/auth")
		{
			// POST /api/v1/auth/login is the only unauthenticated API route.
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMW.VerifyToken(), authHandler.GetCurrentUser)
		}

		// --- User Management Endpoints (admin-gated in the service layer) ---
		usersGroup := apiV1.Group("/users", authMW.VerifyToken())
		{
			usersGroup.GET("", userHandler.ListUsers)
			usersGroup.POST("", userHandler.CreateUser)
			usersGroup.PUT("/:userId", userHandler.UpdateUser)
			usersGroup.DELETE("/:userId", userHandler.DeleteUser)
		}

		// --- Organizational Hierarchy Endpoints ---
		regionsGroup := apiV1.Group("/regions", authMW.VerifyToken())
		{
			regionsGroup.GET("", regionHandler.ListRegions)
			regionsGroup.GET("/:regionId", regionHandler.GetRegion)
			regionsGroup.POST("", regionHandler.CreateRegion)
			regionsGroup.PUT("/:regionId", regionHandler.UpdateRegion)
			regionsGroup.DELETE("/:regionId", regionHandler.DeleteRegion)
		}

		schoolsGroup := apiV1.Group("/schools", authMW.VerifyToken())
		{
			schoolsGroup.GET("", schoolHandler.ListSchools)
			schoolsGroup.GET("/:schoolId", schoolHandler.GetSchool)
			schoolsGroup.POST("", schoolHandler.CreateSchool)
			schoolsGroup.PUT("/:schoolId", schoolHandler.UpdateSchool)
			schoolsGroup.DELETE("/:schoolId", schoolHandler.DeleteSchool)
		}

		locationsGroup := apiV1.Group("/locations", authMW.VerifyToken())
		{
			locationsGroup.GET("", locationHandler.ListLocations)
			locationsGroup.GET("/:locationId", locationHandler.GetLocation)
			locationsGroup.POST("", locationHandler.CreateLocation)
			locationsGroup.PUT("/:locationId", locationHandler.UpdateLocation)
			locationsGroup.DELETE("/:locationId", locationHandler.DeleteLocation)
		}

		// --- Device Endpoints ---
		devicesGroup := apiV1.Group("/devices", authMW.VerifyToken())
		{
			devicesGroup.GET("", deviceHandler.ListDevices)
			devicesGroup.GET("/:deviceId", deviceHandler.GetDevice)
			devicesGroup.POST("", deviceHandler.CreateDevice)
			devicesGroup.PUT("/:deviceId", deviceHandler.UpdateDevice)
			devicesGroup.PATCH("/:deviceId/status", deviceHandler.UpdateDeviceStatus)
			devicesGroup.DELETE("/:deviceId", deviceHandler.DeleteDevice)

			// Per-device view of the activity trail.
			devicesGroup.GET("/:deviceId/logs", deviceLogHandler.ListDeviceLogs)
		}

		// --- Device Activity Log Endpoints ---
		deviceLogsGroup := apiV1.Group("/device-logs", authMW.VerifyToken())
		{
			deviceLogsGroup.GET("", deviceLogHandler.ListLogs)
			deviceLogsGroup.GET("/export", deviceLogHandler.ExportLogs)
		}
	}

	// --- General Health Check Endpoint ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "EduTrack backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
