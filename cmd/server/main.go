package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/Symmetry7/KIITstudy/internal/cache"
	"github.com/Symmetry7/KIITstudy/internal/handlers"
	"github.com/Symmetry7/KIITstudy/internal/middleware"
	"github.com/Symmetry7/KIITstudy/internal/repository"
	"github.com/Symmetry7/KIITstudy/internal/repository/memory"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		AppName: "KIITstudy Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-KS-CSRF",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Storage: Postgres in production, the in-memory store in demo
	// mode (DEMO_MODE=true boots without a database).
	var (
		userRepo         repository.UserRepositoryInterface
		groupRepo        repository.GroupRepositoryInterface
		participantRepo  repository.ParticipantRepositoryInterface
		joinRequestRepo  repository.JoinRequestRepositoryInterface
		messageRepo      repository.MessageRepositoryInterface
		sessionRepo      repository.SessionRepositoryInterface
		goalRepo         repository.GoalRepositoryInterface
		scheduleRepo     repository.ScheduleRepositoryInterface
		friendRepo       repository.FriendRequestRepositoryInterface
		refreshTokenRepo repository.RefreshTokenRepositoryInterface
		readStateRepo    repository.GroupReadStateRepositoryInterface
		pendingEventRepo repository.PendingEventRepositoryInterface
	)

	if os.Getenv("DEMO_MODE") == "true" {
		log.Println("DEMO_MODE enabled: using the in-memory store")
		store := memory.NewStore()
		userRepo = memory.NewUserStore(store)
		groupRepo = memory.NewGroupStore(store)
		participantRepo = memory.NewParticipantStore(store)
		joinRequestRepo = memory.NewJoinRequestStore(store)
		messageRepo = memory.NewMessageStore(store)
		sessionRepo = memory.NewSessionStore(store)
		goalRepo = memory.NewGoalStore(store)
		scheduleRepo = memory.NewScheduleStore(store)
		friendRepo = memory.NewFriendStore(store)
		refreshTokenRepo = memory.NewRefreshTokenStore(store)
		readStateRepo = memory.NewReadStateStore(store)
		pendingEventRepo = memory.NewPendingEventStore(store)
	} else {
		db, err := repository.InitDB()
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		userRepo = repository.NewUserRepository(db)
		groupRepo = repository.NewGroupRepository(db)
		participantRepo = repository.NewParticipantRepository(db)
		joinRequestRepo = repository.NewJoinRequestRepository(db)
		messageRepo = repository.NewMessageRepository(db)
		sessionRepo = repository.NewSessionRepository(db)
		goalRepo = repository.NewGoalRepository(db)
		scheduleRepo = repository.NewScheduleRepository(db)
		friendRepo = repository.NewFriendRequestRepository(db)
		refreshTokenRepo = repository.NewRefreshTokenRepository(db)
		readStateRepo = repository.NewGroupReadStateRepository(db)
		pendingEventRepo = repository.NewPendingEventRepository(db)
	}

	// Redis cache (optional; everything degrades to the database)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	messageCache := cache.NewMessageCache(redisCache)
	presenceCache := cache.NewPresenceCache(redisCache)
	leaderboardCache := cache.NewLeaderboardCache(redisCache)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo)
	userService := service.NewUserService(userRepo, sessionRepo)
	userService.SetPresenceCache(presenceCache)

	ledgerService := service.NewLedgerService(participantRepo, userRepo, groupRepo)
	ledgerService.SetPresenceCache(presenceCache)

	messageService := service.NewMessageService(messageRepo, participantRepo, groupRepo, friendRepo, readStateRepo)
	messageService.SetCache(messageCache)

	groupService := service.NewGroupService(groupRepo, participantRepo, joinRequestRepo, readStateRepo, userRepo)
	groupService.SetMessages(messageService)

	leaderboardService := service.NewLeaderboardService(participantRepo, groupRepo)
	leaderboardService.SetCache(leaderboardCache)

	sessionService := service.NewSessionService(sessionRepo, groupRepo, participantRepo, ledgerService)
	sessionService.SetLeaderboard(leaderboardService)
	sessionService.SetMessages(messageService)

	goalService := service.NewGoalService(goalRepo)
	scheduleService := service.NewScheduleService(scheduleRepo)
	friendService := service.NewFriendService(friendRepo, userRepo)

	// Handlers; the websocket hub doubles as the event publisher
	wsHandler := handlers.NewWebSocketHandler(messageService, ledgerService, userService, pendingEventRepo)
	hub := wsHandler.GetHub()
	groupService.SetPublisher(hub)
	messageService.SetPublisher(hub)
	ledgerService.SetPublisher(hub)
	sessionService.SetPublisher(hub)
	friendService.SetPublisher(hub)
	notifier := handlers.NewHubNotifier(hub)
	scheduleService.SetNotifier(notifier)
	sessionService.SetNotifier(notifier)

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	groupHandler := handlers.NewGroupHandler(groupService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	messageHandler := handlers.NewMessageHandler(messageService)
	goalHandler := handlers.NewGoalHandler(goalService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	friendHandler := handlers.NewFriendHandler(friendService)

	// Background loops: countdown expiry, schedule reminders, and
	// pruning of undeliverable queued events
	go sessionService.Run(context.Background())
	go scheduleService.RunReminders(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := pendingEventRepo.CleanupOld(7 * 24 * time.Hour); err != nil {
				log.Printf("Pending event cleanup failed: %v", err)
			}
		}
	}()

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Get("/csrf", authHandler.CSRF)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh) // protected by the refresh token itself
	auth.Post("/logout", middleware.CSRFRequired(), authHandler.Logout)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())
	protected.Get("/users/me", authHandler.Me)
	protected.Put("/users/me", userHandler.UpdateProfile)
	protected.Get("/users/me/stats", userHandler.Stats)
	protected.Get("/users/me/sessions", userHandler.RecentSessions)
	protected.Get("/users/search", userHandler.SearchUsers)
	protected.Get("/users/:id", userHandler.GetProfile)

	// Group routes
	protected.Post("/groups", groupHandler.CreateGroup)
	protected.Get("/groups", groupHandler.GetMyGroups)
	protected.Get("/groups/active", groupHandler.ListActive)
	protected.Get("/groups/search", groupHandler.Search)
	protected.Get("/groups/:id", groupHandler.GetGroup)
	protected.Get("/groups/:id/members", groupHandler.GetGroupMembers)
	protected.Post("/groups/:id/join", groupHandler.JoinGroup)
	protected.Post("/groups/:id/leave", groupHandler.LeaveGroup)
	protected.Delete("/groups/:id/members/:userId", groupHandler.RemoveParticipant)
	protected.Get("/groups/:id/requests", groupHandler.ListJoinRequests)
	protected.Post("/groups/:id/requests/:requestId/approve", groupHandler.ApproveJoinRequest)
	protected.Post("/groups/:id/requests/:requestId/reject", groupHandler.RejectJoinRequest)

	// Session routes
	protected.Post("/groups/:id/session/start", sessionHandler.Start)
	protected.Post("/groups/:id/session/pause", sessionHandler.Pause)
	protected.Post("/groups/:id/session/resume", sessionHandler.Resume)
	protected.Post("/groups/:id/session/stop", sessionHandler.Stop)
	protected.Get("/groups/:id/session", sessionHandler.Status)
	protected.Get("/groups/:id/leaderboard", leaderboardHandler.GroupLeaderboard)

	// Chat routes
	protected.Get("/groups/:id/messages", messageHandler.GetGroupMessages)
	protected.Post("/groups/:id/messages", messageHandler.PostGroupMessage)
	protected.Post("/groups/:id/read", messageHandler.MarkGroupRead)
	protected.Get("/groups/:id/unread", messageHandler.UnreadCount)
	protected.Post("/messages/:userId", messageHandler.SendDirectMessage)
	protected.Get("/messages/:userId", messageHandler.GetConversation)

	// Goal routes
	protected.Post("/goals", goalHandler.CreateGoal)
	protected.Get("/goals", goalHandler.ListGoals)
	protected.Get("/goals/:id", goalHandler.GetGoal)
	protected.Post("/goals/:id/progress", goalHandler.AddProgress)
	protected.Post("/goals/:id/pause", goalHandler.PauseGoal)
	protected.Post("/goals/:id/resume", goalHandler.ResumeGoal)
	protected.Post("/goals/:id/milestones", goalHandler.AddMilestone)
	protected.Delete("/goals/:id", goalHandler.DeleteGoal)

	// Schedule routes
	protected.Post("/schedule", scheduleHandler.CreateItem)
	protected.Get("/schedule", scheduleHandler.ListItems)
	protected.Put("/schedule/:id", scheduleHandler.UpdateItem)
	protected.Post("/schedule/:id/status", scheduleHandler.SetStatus)
	protected.Delete("/schedule/:id", scheduleHandler.DeleteItem)

	// Friend routes
	protected.Post("/friends/requests/:userId", friendHandler.SendRequest)
	protected.Get("/friends/requests", friendHandler.ListPending)
	protected.Post("/friends/requests/:id/accept", friendHandler.AcceptRequest)
	protected.Post("/friends/requests/:id/reject", friendHandler.RejectRequest)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"message":     "KIITstudy is running",
			"connections": hub.Count(),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
