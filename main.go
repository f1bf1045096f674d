package main

import (
	"log"

	"trainerbot/bot"
	"trainerbot/config"
	"trainerbot/handlers"
	"trainerbot/middleware"
	"trainerbot/models"
	"trainerbot/routes"
	"trainerbot/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Attempt{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis (optional, sessions fall back to memory)
	redisClient := config.InitRedis(cfg)

	// Initialize services
	userService := services.NewUserService(db)
	taskService := services.NewTaskService(db)
	answerService := services.NewAnswerService(db)
	sessionStore := services.NewSessionStore(redisClient)

	// Seed starter tasks on first run
	if err := taskService.Seed(); err != nil {
		log.Fatal("Failed to seed tasks:", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub(userService)
	go hub.Run()

	// Start the Telegram bot
	if cfg.BotToken == "" {
		log.Println("BOT_TOKEN is not set, running without the Telegram bot")
	} else {
		flow := bot.NewFlow(userService, taskService, answerService, sessionStore, hub)
		tgBot, err := bot.NewBot(cfg.BotToken, flow)
		if err != nil {
			log.Fatal("Failed to start Telegram bot:", err)
		}
		go tgBot.Start()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg.JWTSecret, cfg.AdminPasswordHash)
	taskHandler := handlers.NewTaskHandler(taskService)
	statsHandler := handlers.NewStatsHandler(userService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, taskHandler, statsHandler, hub, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
