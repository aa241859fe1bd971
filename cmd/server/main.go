package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/sjafferali/meditrack/internal/config"
	"github.com/sjafferali/meditrack/internal/database"
	"github.com/sjafferali/meditrack/internal/handlers"
	"github.com/sjafferali/meditrack/internal/middleware"
	"github.com/sjafferali/meditrack/internal/utils"

	_ "github.com/sjafferali/meditrack/docs/api" // Swagger docs
)

// @title MediTrack API
// @version 1.0.0
// @description Personal medication tracking service: persons, medications, dose ledger, daily summaries and printable reports
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/sjafferali/meditrack

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /api/v1
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Optionally seed an empty database with sample data
	if cfg.SeedData {
		if err := database.Seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("meditrack")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	personsHandler := &handlers.PersonsHandler{DB: db}
	medicationsHandler := &handlers.MedicationsHandler{DB: db, Cfg: cfg}
	dosesHandler := &handlers.DosesHandler{DB: db, Cfg: cfg}
	reportsHandler := &handlers.ReportsHandler{DB: db, Cfg: cfg}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	// Liveness probe outside the API group; does not touch the database
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	// API routes under /api/v1
	api := app.Group("/api/v1")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	api.Get("/health", healthHandler.GetHealth)

	// Person routes
	api.Get("/persons", personsHandler.ListPersons)
	api.Post("/persons", personsHandler.CreatePerson)
	api.Get("/persons/:id", personsHandler.GetPerson)
	api.Put("/persons/:id", personsHandler.UpdatePerson)
	api.Delete("/persons/:id", personsHandler.DeletePerson)
	api.Put("/persons/:id/set-default", personsHandler.SetDefaultPerson)

	// Medication routes
	api.Get("/medications", medicationsHandler.ListMedications)
	api.Post("/medications", medicationsHandler.CreateMedication)
	api.Get("/medications/:id", medicationsHandler.GetMedication)
	api.Put("/medications/:id", medicationsHandler.UpdateMedication)
	api.Delete("/medications/:id", medicationsHandler.DeleteMedication)

	// Dose routes
	api.Post("/medications/:id/dose", dosesHandler.RecordDose)
	api.Post("/medications/:id/dose/:date", dosesHandler.RecordDoseAt)
	api.Get("/medications/:id/doses", dosesHandler.ListDoses)
	api.Get("/medications/:id/doses/:date", dosesHandler.ListDosesOn)
	api.Delete("/doses/:id", dosesHandler.DeleteDose)

	// Daily summary routes
	api.Get("/daily-summary", dosesHandler.GetDailySummary)
	api.Get("/daily-summary/:date", dosesHandler.GetDailySummaryFor)

	// Report routes
	api.Get("/reports/medications/pdf/:date", reportsHandler.MedicationTrackingPDF)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
