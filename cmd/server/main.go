package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"globetrotter/internal/config"
	"globetrotter/internal/database"
	"globetrotter/internal/handlers"
	"globetrotter/internal/jobs"
	"globetrotter/internal/llm"
	"globetrotter/internal/logging"
	"globetrotter/internal/middleware"
	"globetrotter/internal/planner"
	"globetrotter/internal/services"
	"globetrotter/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Structured logging backend for the planner pipeline (JSON in
	// production, text in dev)
	logging.Init()

	log.Println("🚀 Starting GlobeTrotter AI Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Env: %s)", cfg.Port, cfg.Environment)

	// MongoDB is the source of truth for every repository
	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())
	log.Println("✅ MongoDB connected successfully")

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoDB.Initialize(initCtx); err != nil {
		log.Printf("⚠️ Failed to ensure MongoDB indexes: %v", err)
	}
	cancelInit()

	// Redis cache. The app degrades to store-only when unavailable.
	redisService, err := services.NewRedisService(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️ Failed to connect to Redis: %v (caching and chat quotas disabled)", err)
		redisService = nil
	} else {
		defer redisService.Close()
	}

	// Prometheus collectors
	services.InitMetrics()

	// LLM provider is optional; without one the assistant answers with
	// built-in templates and demo replies
	var provider llm.Provider
	if client, err := llm.NewFromConfig(context.Background(), cfg); err != nil {
		if errors.Is(err, llm.ErrNoProvider) {
			log.Println("⚠️ No LLM API key configured - assistant runs in fallback mode")
		} else {
			log.Printf("⚠️ Failed to initialize LLM provider: %v (fallback mode)", err)
		}
	} else {
		provider = client
	}

	// Hotel scoring profile, hot-reloaded on file change
	profile, err := services.LoadScoringProfile(cfg.ScoringProfilePath)
	if err != nil {
		log.Printf("⚠️ Failed to load scoring profile: %v (using built-in defaults)", err)
		profile = services.DefaultScoringProfile()
	} else {
		log.Printf("✅ Scoring profile loaded from %s", cfg.ScoringProfilePath)
	}

	// Services
	conversationService := services.NewConversationService(mongoDB, redisService)
	tripService := services.NewTripService(mongoDB)
	cityService := services.NewCityService(mongoDB)
	blacklistService := services.NewBlacklistService(mongoDB)
	contextService := services.NewContextService(mongoDB, redisService)
	voiceService := services.NewVoiceService()
	advancedAI := services.NewAdvancedAIService(provider, profile)

	// Chat planning engine
	engine := planner.NewEngine(conversationService, contextService, blacklistService, provider)

	// JWT auth. Without a secret every bearer token resolves to the
	// mock identity, which is only acceptable in development.
	var jwtAuth *auth.JWTAuth
	if cfg.JWTSecret != "" {
		jwtAuth, err = auth.NewJWTAuth(cfg.JWTSecret, 0)
		if err != nil {
			log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
		}
		log.Println("🔐 JWT authentication enabled")
	} else {
		if cfg.IsProduction() {
			log.Fatal("❌ JWT_SECRET is required in production")
		}
		log.Println("⚠️  JWT_SECRET not set - every bearer token resolves to the mock identity")
	}

	// Background jobs
	scheduler, err := jobs.NewJobScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}
	cleanupJob := jobs.NewContextCleanupJob(contextService, cfg.ContextRetentionDays, cfg.CleanupSchedule)
	if err := scheduler.Register(cleanupJob); err != nil {
		log.Printf("⚠️ %v", err)
	}
	if err := scheduler.Register(jobs.NewFeaturedWarmupJob(cityService)); err != nil {
		log.Printf("⚠️ %v", err)
	}
	scheduler.Start()

	// Run the retention sweep once at boot instead of waiting for the
	// scheduled slot
	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := scheduler.RunNow(runCtx, cleanupJob.Name()); err != nil {
			log.Printf("⚠️ Startup context cleanup failed: %v", err)
		}
	}()

	// Watch the scoring profile for changes
	if cfg.ScoringHotReload {
		go watchScoringProfile(cfg.ScoringProfilePath, advancedAI)
	} else {
		log.Println("👁️  Scoring profile hot-reload disabled (SCORING_HOT_RELOAD=false)")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.ProjectName + " v" + cfg.Version,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM completions can be slow
		IdleTimeout:  90 * time.Second,
		BodyLimit:    10 * 1024 * 1024, // voice payloads carry base64 audio
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("globetrotter")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Load rate limiting configuration
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Public=%d/min, AI=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.PublicReadMax,
		rateLimitConfig.AIMax,
	)

	// Fiber's CORS middleware does not allow AllowCredentials with
	// wildcard origins
	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := allowedOrigins != "*"

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowCredentials,
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", allowedOrigins)

	// Global API rate limiter - first line of defense, excludes / and /metrics
	app.Use(cfg.APIPrefix, middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, mongoDB, redisService, provider)
	chatHandler := handlers.NewChatHandler(engine, redisService, cfg)
	conversationHandler := handlers.NewConversationHandler(conversationService)
	tripHandler := handlers.NewTripHandler(tripService)
	cityHandler := handlers.NewCityHandler(cityService)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistService)
	preferencesHandler := handlers.NewPreferencesHandler(contextService)
	voiceHandler := handlers.NewVoiceHandler(voiceService, engine)
	aiHandler := handlers.NewAIHandler(advancedAI)

	authRequired := middleware.RequireAuth(jwtAuth, cfg)
	adminOnly := middleware.RequireAdmin()
	aiLimiter := middleware.AIRateLimiter(rateLimitConfig)
	publicLimiter := middleware.PublicReadRateLimiter(rateLimitConfig)

	// Service banner and the standalone itinerary endpoint live outside
	// the API prefix
	app.Get("/", chatHandler.Root)
	app.Post("/generate-itinerary", authRequired, aiLimiter, chatHandler.GenerateItinerary)

	api := app.Group(cfg.APIPrefix)

	// Health check (public)
	api.Get("/health", healthHandler.Handle)

	// Chat
	api.Post("/chat", authRequired, aiLimiter, chatHandler.Chat)

	// Conversations
	conversations := api.Group("/conversations", authRequired)
	conversations.Get("/", conversationHandler.List)
	conversations.Post("/", conversationHandler.Create)
	conversations.Get("/:id", conversationHandler.Get)
	conversations.Patch("/:id", conversationHandler.Update)
	conversations.Delete("/:id", conversationHandler.Delete)
	conversations.Post("/:id/clear", conversationHandler.Clear)
	conversations.Post("/:id/messages", conversationHandler.AppendMessage)

	// Trips, all owner-gated in the handlers
	trips := api.Group("/trips", authRequired)
	trips.Get("/", tripHandler.List)
	trips.Post("/", tripHandler.Create)
	trips.Get("/:id", tripHandler.Get)
	trips.Put("/:id", tripHandler.Update)
	trips.Delete("/:id", tripHandler.Delete)
	trips.Post("/:id/days/:date/activities", tripHandler.AddActivity)
	trips.Put("/:id/days/:date/activities/:activityId", tripHandler.UpdateActivity)
	trips.Delete("/:id/days/:date/activities/:activityId", tripHandler.DeleteActivity)
	trips.Post("/:id/budget", tripHandler.AddBudgetItem)
	trips.Put("/:id/budget/:itemId", tripHandler.UpdateBudgetItem)
	trips.Delete("/:id/budget/:itemId", tripHandler.DeleteBudgetItem)
	trips.Post("/:id/cities", tripHandler.AddCity)
	trips.Get("/:id/cities", tripHandler.ListCities)
	trips.Delete("/:id/cities/:cityId", tripHandler.RemoveCity)

	// Cities. Reads are public; writes need the admin flag. Static
	// paths must be registered before /:id so they are not captured.
	cities := api.Group("/cities")
	cities.Get("/", publicLimiter, cityHandler.Search)
	cities.Get("/featured", publicLimiter, cityHandler.Featured)
	cities.Get("/autocomplete", publicLimiter, cityHandler.Autocomplete)
	cities.Get("/country/:code", publicLimiter, cityHandler.ByCountry)
	cities.Get("/:id", publicLimiter, cityHandler.Get)
	cities.Post("/", authRequired, adminOnly, cityHandler.Create)
	cities.Put("/:id", authRequired, adminOnly, cityHandler.Update)
	cities.Delete("/:id", authRequired, adminOnly, cityHandler.Delete)

	// Blacklist
	blacklist := api.Group("/blacklist", authRequired)
	blacklist.Post("/add", blacklistHandler.Add)
	blacklist.Delete("/remove", blacklistHandler.Remove)
	blacklist.Post("/bulk", blacklistHandler.BulkAdd)
	blacklist.Get("/:userId", blacklistHandler.Get)

	// Preferences and recommendations
	api.Post("/preferences/save", authRequired, preferencesHandler.Save)
	api.Get("/preferences/:userId", authRequired, preferencesHandler.Get)
	api.Get("/recommendations/:userId", authRequired, preferencesHandler.Recommendations)

	// Voice
	voice := api.Group("/voice")
	voice.Post("/process", authRequired, voiceHandler.Process)
	voice.Post("/chat", authRequired, aiLimiter, voiceHandler.Chat)
	voice.Get("/capabilities", voiceHandler.Capabilities)

	// Advanced AI
	ai := api.Group("/ai", authRequired, aiLimiter)
	ai.Post("/optimize-hotels", aiHandler.OptimizeHotels)
	ai.Post("/travel-alerts", aiHandler.TravelAlerts)
	ai.Post("/travel-tips", aiHandler.TravelTips)
	ai.Post("/optimize-itinerary", aiHandler.OptimizeItinerary)

	log.Printf("🌍 Server starting on %s:%s", cfg.Host, cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s%s/health", cfg.Port, cfg.APIPrefix)
	log.Printf("🕐 Background jobs: context cleanup (cron: %s), featured warmup (hourly)", cfg.CleanupSchedule)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		// Stop background jobs
		scheduler.Stop()

		// Shutdown Fiber; Mongo and Redis close via the deferred handles
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(cfg.Host + ":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// watchScoringProfile watches the scoring profile file and hot-reloads
// it on changes
func watchScoringProfile(filePath string, advancedAI *services.AdvancedAIService) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create file watcher: %v", err)
		return
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		log.Printf("⚠️  Failed to get absolute path for %s: %v", filePath, err)
		watcher.Close()
		return
	}

	// Watch the directory containing the file (more reliable than
	// watching the file directly)
	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch directory %s: %v", dir, err)
		watcher.Close()
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", filePath)

	// Debounce to avoid multiple reloads for rapid file changes
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Only react to changes to our specific file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}

				debounceTimer = time.AfterFunc(debounceDuration, func() {
					log.Printf("🔄 Detected changes in %s, reloading scoring profile...", filePath)

					if err := advancedAI.ReloadProfile(filePath); err != nil {
						log.Printf("❌ Failed to reload scoring profile: %v", err)
					} else {
						log.Printf("✅ Scoring profile reloaded from %s", filePath)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  File watcher error: %v", err)
		}
	}
}
