package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"sanitasi/internal/config"
	"sanitasi/internal/database"
	"sanitasi/internal/handlers"
	"sanitasi/internal/middleware"
	"sanitasi/internal/repositories"
	"sanitasi/internal/services"
	"sanitasi/internal/validation"
	"sanitasi/pkg/rabbitmq"
	"sanitasi/web"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL == "" {
		log.Println("RABBITMQ_URL is not set. User events are disabled.")
	} else {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, continuing without user events: %v", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient

			go func() {
				log.Println("Starting RabbitMQ consumer for user events...")
				if consumerErr := mqClient.ConsumeUserEvents(rabbitmq.HandleUserMessage); consumerErr != nil {
					log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
				}
			}()
		}
	}

	app := NewApp(cfg, db, publisher)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires repositories, services and handlers into a Fiber app.
// publisher may be nil, in which case registrations publish no events.
func NewApp(cfg config.Config, db *gorm.DB, publisher services.EventPublisher) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)

	registrationService := services.NewRegistrationService(userRepo, validation.New(time.Now), publisher, cfg.BcryptCost)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)

	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(registrationService)

	app := fiber.New(fiber.Config{
		Views: web.NewEngine(),
	})

	app.Use(logger.New())

	// HTML registration page
	registrationHandler.RegisterRoutes(app)

	// API Routes
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	userHandler.RegisterRoutes(protectedRoutes)

	app.Get("/health", func(c *fiber.Ctx) error {
		status, dbStatus := "healthy", "connected"
		if err := database.Ping(db); err != nil {
			log.Printf("Health check: database ping failed: %v", err)
			status, dbStatus = "degraded", "unavailable"
		}
		mqStatus := "disabled"
		if publisher != nil {
			mqStatus = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"rabbitmq": mqStatus,
		})
	})

	return app
}
