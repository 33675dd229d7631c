package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/daybrief/internal/handlers"
	"github.com/alimgiray/daybrief/internal/repositories"
	"github.com/alimgiray/daybrief/internal/services"
	"github.com/alimgiray/daybrief/internal/sources"
	"github.com/alimgiray/daybrief/pkg/config"
	"github.com/alimgiray/daybrief/pkg/database"
	"github.com/alimgiray/daybrief/pkg/logger"
)

func main() {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	logger.Init()

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Durable state repositories
	suppressionRepo := repositories.NewSuppressionRepository(database.DB)
	engineStateRepo := repositories.NewEngineStateRepository(database.DB)

	// Source adapters
	calendarSource := sources.NewHTTPCalendarSource(cfg.Sources.CalendarURL, cfg.Sources.Token)
	mailSource := sources.NewHTTPMailSource(cfg.Sources.MailURL, cfg.Sources.Token)
	noteSource := sources.NewHTTPNoteSource(cfg.Sources.NoteURL, cfg.Sources.Token)
	todoSource := sources.NewHTTPTodoSource(cfg.Sources.TodoURL, cfg.Sources.Token)
	fetcher := sources.NewFetcher(calendarSource, mailSource, noteSource, todoSource, cfg.Engine.AdapterTimeout)

	// Engine services
	resolverService := services.NewPersonResolverService(cfg.Engine.SelfEmails)
	similarityService := services.NewTitleSimilarityService()
	crossrefService := services.NewCrossRefService(similarityService)
	scoringService := services.NewScoringService()
	dossierService := services.NewDossierService(scoringService)
	insightService := services.NewInsightService(suppressionRepo)
	greetingService := services.NewGreetingService()
	exportService := services.NewExportService()

	var narrativeService *services.NarrativeService
	if cfg.OpenAI.APIKey != "" {
		narrativeClient := services.NewOpenAINarrativeClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		narrativeService = services.NewNarrativeService(narrativeClient, engineStateRepo, cfg.Engine.BriefingTTL)
	}

	refreshService := services.NewRefreshService(
		fetcher, resolverService, crossrefService, scoringService,
		dossierService, insightService, greetingService, narrativeService,
		services.RefreshOptions{
			Interval:   cfg.Engine.RefreshInterval,
			TopActions: cfg.Engine.TopActions,
			DossierTTL: cfg.Engine.DossierTTL,
			InsightTTL: cfg.Engine.InsightTTL,
		},
	)

	// Initialize router
	router := gin.Default()
	setupRoutes(router, refreshService, insightService, narrativeService, exportService)

	// Start the refresh loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refreshService.Start(ctx)
	defer refreshService.Stop()

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	refreshService *services.RefreshService,
	insightService *services.InsightService,
	narrativeService *services.NarrativeService,
	exportService *services.ExportService,
) {
	// Initialize handlers
	feedHandler := handlers.NewFeedHandler(refreshService, insightService, narrativeService, exportService)
	healthHandler := handlers.NewHealthHandler(refreshService)

	feed := router.Group("/feed")
	{
		feed.GET("/", feedHandler.Feed)
		feed.GET("/actions", feedHandler.Actions)
		feed.GET("/dossiers", feedHandler.Dossiers)
		feed.GET("/insights", feedHandler.Insights)
		feed.GET("/greeting", feedHandler.Greeting)
		feed.GET("/briefing", feedHandler.Briefing)
		feed.GET("/export", feedHandler.Export)
		feed.POST("/refresh", feedHandler.Refresh)
		feed.POST("/briefing/dismiss", feedHandler.DismissBriefing)
	}

	router.POST("/insights/dismiss", feedHandler.DismissInsight)

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)
}
