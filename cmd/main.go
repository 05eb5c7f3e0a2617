package main

import (
	"fmt"
	"log"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/config"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/handlers"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/repository"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/services"
	"github.com/deepeshagarwal1116/smartstudent-backend/pkg/database"
	"github.com/deepeshagarwal1116/smartstudent-backend/pkg/mailer"
	"github.com/deepeshagarwal1116/smartstudent-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to the database
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize file storage
	fileStorage, err := storage.NewStorage(cfg.UploadPath, cfg.MaxFileSize)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Pick the mail transport; without an API key mail goes to the log
	var mailSvc mailer.Service
	if cfg.SendGridAPIKey != "" {
		mailSvc = mailer.NewSendGridService(cfg.SendGridAPIKey, cfg.AppName, cfg.FromEmail)
	} else {
		log.Printf("SENDGRID_API_KEY not set, using console mailer")
		mailSvc = mailer.NewConsoleService(cfg.FromEmail)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db.DB)
	assignmentRepo := repository.NewAssignmentRepository(db.DB)
	goalRepo := repository.NewGoalRepository(db.DB)

	// Create services
	authService := services.NewAuthService(userRepo, mailSvc, cfg.JWTSecret, cfg.JWTExpiration, cfg.OTPTTL)
	assignmentService := services.NewAssignmentService(assignmentRepo, userRepo)
	goalService := services.NewGoalService(goalRepo)

	// Create handlers
	authHandler := handlers.NewAuthHandler(authService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, fileStorage)
	goalHandler := handlers.NewGoalHandler(goalService)

	if err := handlers.RegisterCustomValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	router := gin.Default()

	// Middleware
	router.Use(handlers.CORSMiddleware())

	// Uploaded files
	router.Static(storage.URLPrefix, fileStorage.BasePath())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	{
		api.POST("/send-otp", authHandler.SendOTP)
		api.POST("/verify-otp", authHandler.VerifyOTP)
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/reset-password", authHandler.ResetPassword)
	}

	// Student directory, teacher only
	students := api.Group("/students")
	students.Use(handlers.AuthMiddleware(authService))
	students.Use(handlers.TeacherOnlyMiddleware())
	{
		students.GET("", authHandler.GetStudents)
		students.GET("/filter", authHandler.FilterStudents)
	}

	// Assignments
	assignments := api.Group("/assignments")
	assignments.Use(handlers.AuthMiddleware(authService))
	{
		assignments.GET("/student/:studentId", assignmentHandler.GetStudentAssignments)
		assignments.POST("/submit", assignmentHandler.Submit)

		teacherOnly := assignments.Group("")
		teacherOnly.Use(handlers.TeacherOnlyMiddleware())
		{
			teacherOnly.POST("/upload", assignmentHandler.Upload)
			teacherOnly.GET("/teacher/:teacherId", assignmentHandler.TeacherAssignments)
			teacherOnly.GET("/teacher/:teacherId/submissions", assignmentHandler.TeacherSubmissions)
			teacherOnly.POST("/teacher/:teacherId/closeout", assignmentHandler.CloseOut)
			teacherOnly.POST("/grade", assignmentHandler.Grade)
		}
	}

	// Goals
	goals := api.Group("/goals")
	goals.Use(handlers.AuthMiddleware(authService))
	{
		goals.GET("", goalHandler.GetGoals)
		goals.POST("", goalHandler.CreateGoal)
		goals.PUT("/:goalId", goalHandler.UpdateGoal)
		goals.DELETE("/:goalId", goalHandler.DeleteGoal)
		goals.GET("/analytics", goalHandler.Analytics)
	}

	// Start the server
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting %s server on %s", cfg.AppName, addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
