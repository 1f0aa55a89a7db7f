package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"gamewatch/backend/internal/auth"
	"gamewatch/backend/internal/config"
	"gamewatch/backend/internal/database"
	"gamewatch/backend/internal/handler"
	"gamewatch/backend/internal/hub"
	"gamewatch/backend/internal/interest"
	"gamewatch/backend/internal/notify"
	"gamewatch/backend/internal/rank"
	"gamewatch/backend/internal/release"
	"gamewatch/backend/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	// Swagger imports
	_ "gamewatch/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Gamewatch API
// @version         1.0
// @description     Game discovery and social tracking service: catalog, interest ledger, release calendar and notifications.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Optional Redis-backed ranking cache; a nil client degrades to
	// uncached queries.
	var rankCache *rank.Cache
	if config.AppConfig.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Printf("Warning: Redis unreachable, ranking cache disabled: %v", err)
		} else {
			rankCache = rank.NewCache(client)
		}
	}

	// Core engines
	rank.Default = rank.NewService(rank.NewGormStore(database.DB), rankCache, config.AppConfig.RankCacheTTL)

	var invalidator interest.Invalidator
	if rankCache != nil {
		invalidator = rankCache
	}
	interest.Default = interest.NewService(interest.NewGormStore(database.DB), hub.GlobalHub, invalidator)

	var publisher notify.Publisher
	if p := notify.NewAMQPPublisher(config.AppConfig.RabbitMQURL); p != nil {
		publisher = p
		go notify.StartReleaseConsumer(config.AppConfig.RabbitMQURL)
	}
	notify.Default = notify.NewEngine(notify.NewGormStore(database.DB), hub.GlobalHub, publisher)
	release.Default = release.NewEngine(release.NewGormStore(database.DB), notify.Default)

	// Background release check; the manual admin route stays available and
	// is safe to race against this loop.
	scheduler.StartReleaseLoop(context.Background(), release.Default, config.AppConfig.ReleaseCheckInterval)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/me/interests", handler.GetMyInterests)
			userRoutes.GET("/me/reviews", handler.GetMyReviews)
			userRoutes.GET("/me/notifications/stream", handler.StreamMyNotifications)
		}

		// Game routes: browsing is open to visitors, the liked flag fills in
		// when a token is present.
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.OptionalAuthMiddleware())
		{
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.GET("/top", handler.TopInterested)    // Must be before /:id
			gameRoutes.GET("/calendar", handler.GetCalendar) // Must be before /:id
			gameRoutes.GET("/:id", handler.GetGameByID)
			gameRoutes.GET("/:id/reviews", handler.GetGameReviews)
		}

		// Mutations require authentication
		authedGameRoutes := apiV1.Group("/games")
		authedGameRoutes.Use(auth.AuthMiddleware())
		{
			authedGameRoutes.POST("/:id/interest", handler.ToggleInterest)
			authedGameRoutes.POST("/:id/reviews", handler.CreateReview)
		}

		// Genre and review browsing
		apiV1.GET("/genres", auth.OptionalAuthMiddleware(), handler.GetGenres)
		apiV1.GET("/reviews", auth.OptionalAuthMiddleware(), handler.GetCommunityFeed)

		// Realtime interest change feed
		apiV1.GET("/events/interest", auth.OptionalAuthMiddleware(), handler.StreamInterestEvents)

		// Notification routes (protected)
		notificationRoutes := apiV1.Group("/notifications")
		notificationRoutes.Use(auth.AuthMiddleware())
		{
			notificationRoutes.GET("", handler.GetNotifications)
			notificationRoutes.POST("/:id/read", handler.MarkNotificationRead)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			// Genres CRUD
			genres := adminRoutes.Group("/genres")
			{
				genres.POST("", handler.CreateGenre)
				genres.PUT("/:id", handler.UpdateGenre)
				genres.DELETE("/:id", handler.DeleteGenre)
			}

			// Games CRUD (admin-only parts)
			adminGameRoutes := adminRoutes.Group("/games")
			{
				adminGameRoutes.POST("", handler.CreateGame)
				adminGameRoutes.POST("/reconcile", handler.ReconcileAllGames)
				adminGameRoutes.PUT("/:id", handler.UpdateGame)
				adminGameRoutes.PUT("/:id/status", handler.OverrideGameStatus)
				adminGameRoutes.DELETE("/:id", handler.DeleteGame)
				adminGameRoutes.POST("/:id/reconcile", handler.ReconcileGame)
			}

			// Manual release check
			adminRoutes.POST("/releases/advance", handler.AdvanceReleases)
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost:" + config.AppConfig.Port + "/swagger/index.html")
	log.Fatal(router.Run(addr))
}
