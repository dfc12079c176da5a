package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"room-rental-backend/internal/config"
	"room-rental-backend/internal/database"
	"room-rental-backend/internal/handler"
	"room-rental-backend/internal/middleware"
	"room-rental-backend/internal/realtime"
	"room-rental-backend/internal/repository"
	"room-rental-backend/internal/service"
	"room-rental-backend/internal/state"
	"room-rental-backend/internal/store"
	"room-rental-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 3. Initialize database connection (credentials + audit history)
	db := database.Connect(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Select the room store. No configured endpoint, or an unreachable
	// one, puts the whole system into local/demo mode. Degraded, not fatal.
	var roomStore store.RoomStore
	cloudEnabled := false
	if cfg.Store.Enabled() {
		redisStore, err := store.NewRedisRoomStore(ctx, cfg.Store.Addr, cfg.Store.Password, cfg.Store.DB)
		if err != nil {
			log.Printf("Warning: room store unreachable, using local demo data: %v", err)
			roomStore = store.NewMemoryRoomStore()
		} else {
			roomStore = redisStore
			cloudEnabled = true
		}
	} else {
		log.Println("No room store configured, using local demo data")
		roomStore = store.NewMemoryRoomStore()
	}
	defer roomStore.Close()

	// 5. Initialize repositories
	roomRepo := repository.NewRoomRepo(roomStore, cloudEnabled)
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 6. Start the rooms provider; it owns the store subscription for the
	// lifetime of the process and must be closed on every exit path.
	provider := state.NewRoomsProvider(roomRepo)
	if err := provider.Start(ctx); err != nil {
		log.Printf("Warning: room subscription unavailable: %v", err)
	}
	defer provider.Close()

	// 7. Initialize services
	authService := service.NewAuthService(userRepo, roomRepo, auditRepo)
	roomService := service.NewRoomService(provider, roomRepo, auditRepo)
	alertService := service.NewAlertService(provider, roomRepo)

	// 8. Start background workers
	go alertService.Start(ctx)

	hub := realtime.NewHub()
	go hub.Run(ctx)
	stopWatch := provider.Watch(hub.BroadcastRooms)
	defer stopWatch()

	// 9. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.Default()
	r.Use(middleware.CORS(cfg))

	authHandler := handler.NewAuthHandler(authService)
	roomHandler := handler.NewRoomHandler(roomService)
	wsHandler := handler.NewWSHandler(hub, roomService)

	// 10. Define routes
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":        "healthy",
			"service":       "room-rental-backend",
			"cloud_enabled": cloudEnabled,
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// Room routes (authenticated)
	rooms := r.Group("/rooms")
	rooms.Use(middleware.AuthMiddleware())
	{
		rooms.GET("", roomHandler.ListRooms)
		rooms.GET("/:id", roomHandler.GetRoom)
		rooms.POST("/:id/device", roomHandler.ControlDevice)

		// Landlord-only routes
		rooms.POST("", middleware.RequireLandlord(), roomHandler.CreateRoom)
		rooms.PATCH("/:id", middleware.RequireLandlord(), roomHandler.UpdateRoom)
		rooms.DELETE("/:id", middleware.RequireLandlord(), roomHandler.DeleteRoom)
	}

	// Dashboard routes (authenticated)
	dash := r.Group("")
	dash.Use(middleware.AuthMiddleware())
	{
		dash.GET("/summary", roomHandler.GetSummary)
		dash.GET("/watch", wsHandler.Watch)
		dash.POST("/tenant/link", roomHandler.LinkTenantRoom)
	}

	// 11. Setup graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop workers and release the room subscription
	cancel()
	log.Println("Server exited")
}
