package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"fieldservice/internal/config"
	"fieldservice/internal/handlers"
	"fieldservice/internal/middleware"
	"fieldservice/internal/pdf"
	"fieldservice/internal/repositories"
	"fieldservice/internal/routes"
	"fieldservice/internal/services"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.JWT.Secret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	workSessionRepo := repositories.NewWorkSessionRepository(db)
	unitRepo := repositories.NewUnitRepository(db)

	// === Services ===
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, assignmentRepo)
	assignmentService := services.NewAssignmentService(assignmentRepo, taskRepo)
	workSessionService := services.NewWorkSessionService(workSessionRepo)
	historyService := services.NewUnitHistoryService(unitRepo, workSessionRepo)

	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	telegramService := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.DryRun)

	reportGen := pdf.NewReportGenerator()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	taskHandler := handlers.NewTaskHandler(taskService)
	assignmentHandler := handlers.NewAssignmentHandler(
		assignmentService, taskService, telegramService, emailService, userRepo,
	)
	workSessionHandler := handlers.NewWorkSessionHandler(workSessionService)
	unitHandler := handlers.NewUnitHandler(historyService, reportGen)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		authHandler,
		taskHandler,
		assignmentHandler,
		workSessionHandler,
		unitHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
