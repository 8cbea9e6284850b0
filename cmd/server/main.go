package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/f1-dashboard/backend/internal/api"
	"github.com/f1-dashboard/backend/internal/config"
	"github.com/f1-dashboard/backend/internal/dataset"
	"github.com/f1-dashboard/backend/internal/live"
	"github.com/f1-dashboard/backend/internal/schedule"
	"github.com/f1-dashboard/backend/internal/snapshot"
	"github.com/f1-dashboard/backend/internal/stats"
	"github.com/f1-dashboard/backend/internal/theme"
	"github.com/f1-dashboard/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Local .env overrides, useful in development
	godotenv.Load()

	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "F1Dashboard.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Check if running in embedded mode (frontend built into binary)
	embeddedMode := web.HasEmbeddedFiles()

	// Dashboard settings (palette, top-N defaults, country codes)
	settings, err := theme.LoadSettings(cfg.Data.SettingsFile)
	if err != nil {
		fmt.Printf("Warning: failed to load dashboard settings: %v\n", err)
		settings = theme.DefaultSettings()
	}

	// Load the historical dataset into DuckDB
	store, err := dataset.Open(cfg.Data.TempDirectory, dataset.Options{
		Threads:     cfg.Advanced.DuckDBThreads,
		MemoryLimit: cfg.Advanced.DuckDBMemoryLimit,
		StartYear:   cfg.Data.StartYear,
	})
	if err != nil {
		fmt.Printf("Failed to initialize dataset store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.LoadDir(cfg.GetDataDir()); err != nil {
		fmt.Printf("Failed to load dataset from %s: %v\n", cfg.GetDataDir(), err)
		os.Exit(1)
	}

	queries := stats.New(store)

	// Race calendar; the dashboard degrades to historical-only without it
	var sched *schedule.Handler
	scheduleTTL := time.Duration(cfg.Data.ScheduleCacheTTL) * time.Second
	sched = schedule.New(cfg.Data.ScheduleFile, scheduleTTL, settings.CountryCodes)
	if err := sched.Load(); err != nil {
		fmt.Printf("Warning: failed to load race schedule: %v\n", err)
		sched = nil
	}

	// Live standings client
	var liveClient *live.Client
	if cfg.Live.Enabled {
		liveClient = live.NewClient(
			cfg.Live.BaseURL,
			time.Duration(cfg.Live.Timeout)*time.Second,
			time.Duration(cfg.Live.CacheTTL)*time.Second,
		)
	}

	// Snapshot storage
	snapStore, err := snapshot.NewLocalStore(cfg.GetSnapshotsDir())
	if err != nil {
		fmt.Printf("Failed to initialize snapshot storage: %v\n", err)
		os.Exit(1)
	}

	// Initialize API handler
	h := api.NewHandler(api.Dependencies{
		Store:     store,
		Queries:   queries,
		Schedule:  sched,
		Live:      liveClient,
		Snapshots: snapStore,
		Settings:  settings,
		Version:   Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      time.Duration(cfg.Server.ReadTimeout) * time.Second,
		ErrorMessage: "Request timeout - query took too long",
	}))

	// Compression middleware
	if cfg.Server.EnableGzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Server.CompressionLevel,
		}))
	}

	// CORS configuration
	if cfg.Server.EnableCORS {
		if embeddedMode {
			// In embedded mode, use config settings
			origins := strings.Split(cfg.Server.AllowOrigins, ",")
			for i := range origins {
				origins[i] = strings.TrimSpace(origins[i])
			}
			if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
				origins = []string{"*"}
			}
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: origins,
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			}))
		} else {
			// Development mode - only allow localhost frontends
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: []string{
					"http://localhost:5173", "http://127.0.0.1:5173",
					"http://localhost:3000", "http://127.0.0.1:3000",
				},
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			}))
		}
	}

	// API Routes
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.HandleHealth)

	// Selector and theme data
	apiGroup.GET("/meta/seasons", h.HandleSeasons)
	apiGroup.GET("/meta/drivers", h.HandleDrivers)
	apiGroup.GET("/meta/circuits", h.HandleCircuits)
	apiGroup.GET("/meta/theme", h.HandleTheme)

	// Chart data
	apiGroup.GET("/charts/progression", h.HandleProgression)
	apiGroup.GET("/charts/progression/msgpack", h.HandleProgressionMsgpack)
	apiGroup.GET("/charts/constructors", h.HandleConstructorHeatmap)
	apiGroup.GET("/charts/circuit-winners", h.HandleCircuitWinners)
	apiGroup.GET("/charts/head-to-head", h.HandleHeadToHead)
	apiGroup.GET("/charts/top-drivers", h.HandleTopDrivers)
	apiGroup.GET("/charts/season-summary", h.HandleSeasonSummary)

	// Race calendar
	apiGroup.GET("/schedule", h.HandleSchedule)
	apiGroup.GET("/schedule/next", h.HandleNextRace)

	// Live standings proxy
	apiGroup.GET("/live/standings/drivers", h.HandleLiveDriverStandings)
	apiGroup.GET("/live/standings/constructors", h.HandleLiveConstructorStandings)
	apiGroup.GET("/live/calendar", h.HandleLiveCalendar)
	apiGroup.GET("/live/results/last", h.HandleLiveLastResults)

	// Chart snapshots
	apiGroup.POST("/snapshots", h.HandleSaveSnapshot)
	apiGroup.GET("/snapshots/recent", h.HandleRecentSnapshots)
	apiGroup.GET("/snapshots/:id", h.HandleGetSnapshot)

	// Conditional delete based on config
	if cfg.Security.AllowSnapshotDeletion {
		apiGroup.DELETE("/snapshots/:id", h.HandleDeleteSnapshot)
	}

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded frontend from binary")
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Print startup banner
	mode := "API only"
	if embeddedMode {
		mode = "Embedded frontend"
	}
	minSeason, maxSeason := store.SeasonRange()

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           F1 Analytics Dashboard Server                   ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Mode:       %-45s║\n", mode)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("║  Seasons:   %-46s║\n", fmt.Sprintf("%d - %d", minSeason, maxSeason))
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	e.Logger.Fatal(e.StartServer(s))
}
