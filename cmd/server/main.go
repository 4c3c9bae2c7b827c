package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/gorilla/mux"

	"campus-lms/internal/announcement"
	"campus-lms/internal/assignment"
	"campus-lms/internal/auth"
	"campus-lms/internal/course"
	"campus-lms/internal/models"
	"campus-lms/internal/payment"
	"campus-lms/internal/quiz"
	"campus-lms/pkg/cache"
	"campus-lms/pkg/database"
	"campus-lms/pkg/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Institution{},
		&models.User{},
		&models.Profile{},
		&models.AcademicYear{},
		&models.Term{},
		&models.Department{},
		&models.Program{},
		&models.Course{},
		&models.CourseRun{},
		&models.Enrollment{},
		&models.Module{},
		&models.Lesson{},
		&models.Content{},
		&models.Assignment{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.Submission{},
		&models.QuizResponse{},
		&models.Attendance{},
		&models.Grade{},
		&models.Announcement{},
		&models.Discussion{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Initialize WebSocket hub for the live announcement feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	courseRepo := course.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	assignmentRepo := assignment.NewRepository(db)
	announcementRepo := announcement.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, jwtSecret, redisCache)
	courseService := course.NewService(courseRepo, redisCache)
	quizService := quiz.NewService(quizRepo, redisCache)
	assignmentService := assignment.NewService(assignmentRepo)
	announcementService := announcement.NewService(announcementRepo, wsHub)
	paymentService := payment.NewService(paymentRepo)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	courseHandler := course.NewHandler(courseService)
	quizHandler := quiz.NewHandler(quizService)
	assignmentHandler := assignment.NewHandler(assignmentService)
	announcementHandler := announcement.NewHandler(announcementService)
	paymentHandler := payment.NewHandler(paymentService)

	// Setup router
	router := mux.NewRouter()

	// CORS middleware configuration
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Everything else under /api requires a valid, non-revoked token
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret, redisCache))

	apiRouter.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/profile", authHandler.Profile).Methods("GET")
	apiRouter.HandleFunc("/users", authHandler.ListUsers).Methods("GET")
	apiRouter.HandleFunc("/dashboard", courseHandler.Dashboard).Methods("GET")

	apiRouter.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET")
	apiRouter.HandleFunc("/courses/{id}", courseHandler.GetCourse).Methods("GET")
	apiRouter.HandleFunc("/courses/{id}/enroll", courseHandler.Enroll).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/modules/{id}", courseHandler.GetModule).Methods("GET")
	apiRouter.HandleFunc("/lessons/{id}", courseHandler.GetLesson).Methods("GET")

	apiRouter.HandleFunc("/assignments/{id}", assignmentHandler.GetAssignment).Methods("GET")
	apiRouter.HandleFunc("/assignments/{id}/submit", assignmentHandler.SubmitAssignment).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/assignments/{id}/submissions", assignmentHandler.ListSubmissions).Methods("GET")
	apiRouter.HandleFunc("/assignments/submissions/{submissionId}/grade", assignmentHandler.GradeSubmission).Methods("POST", "OPTIONS")

	apiRouter.HandleFunc("/quizzes/{id}", quizHandler.GetQuiz).Methods("GET")
	apiRouter.HandleFunc("/quizzes/{id}/submit", quizHandler.SubmitQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quizzes/{id}/attempts", quizHandler.GetMyAttempts).Methods("GET")
	apiRouter.HandleFunc("/quizzes/responses/{submissionId}", quizHandler.GetSubmissionReport).Methods("GET")

	apiRouter.HandleFunc("/announcements", announcementHandler.List).Methods("GET")
	apiRouter.HandleFunc("/announcements", announcementHandler.Post).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/runs/{id}/discussions", announcementHandler.ListDiscussions).Methods("GET")
	apiRouter.HandleFunc("/runs/{id}/discussions", announcementHandler.PostDiscussion).Methods("POST", "OPTIONS")

	apiRouter.HandleFunc("/runs/{id}/attendance", courseHandler.ListAttendance).Methods("GET")
	apiRouter.HandleFunc("/runs/{id}/attendance", courseHandler.RecordAttendance).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/runs/{id}/grades/recalculate", courseHandler.RecalculateGrades).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/enrollments/{id}/grade", courseHandler.GetGrade).Methods("GET")

	apiRouter.HandleFunc("/payments", paymentHandler.List).Methods("GET")
	apiRouter.HandleFunc("/payments", paymentHandler.Record).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/payments/settle", paymentHandler.Settle).Methods("POST", "OPTIONS")

	// WebSocket endpoint for the live announcement feed
	router.HandleFunc("/ws/announcements/{room}", wsHub.HandleWebSocket)

	// Setup server with CORS handler
	srv := &http.Server{
		Addr:         ":8080",
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port 8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
