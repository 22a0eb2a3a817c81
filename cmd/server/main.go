package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/weblog-assistant/backend/internal/agent"
	"github.com/weblog-assistant/backend/internal/api"
	"github.com/weblog-assistant/backend/internal/config"
	"github.com/weblog-assistant/backend/internal/llm"
	"github.com/weblog-assistant/backend/internal/logging"
	"github.com/weblog-assistant/backend/internal/session"
	"github.com/weblog-assistant/backend/internal/weblog"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	// Build the LLM-backed capabilities
	model, err := llm.NewModel(context.Background(), cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey)
	if err != nil {
		fmt.Printf("Failed to initialize LLM provider: %v\n", err)
		os.Exit(1)
	}
	client := llm.NewClient(model, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second, cfg.LLM.Temperature)

	// Initialize the log engine and routing machine
	engine := weblog.NewEngine(cfg.Log.AccessLogPath)
	machine := agent.NewMachine(client, client, client, engine)

	// Initialize session store
	store := session.NewStore()

	// Start background session cleanup when retention is bounded
	if cfg.Sessions.TimeoutMinutes > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Sessions.CleanupIntervalMinutes) * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				store.CleanupOldSessions(time.Duration(cfg.Sessions.TimeoutMinutes) * time.Minute)
			}
		}()
	}

	// Initialize API handler
	h := api.NewHandler(store, machine, Version)

	e := echo.New()
	e.HideBanner = true

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h)

	// WriteTimeout must cover a full turn including the model calls.
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Web Log Assistant Server                        ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Provider:   %-45s║\n", cfg.LLM.Provider+" ("+cfg.LLM.Model+")")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Listen:     http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Access Log: %-45s║\n", cfg.Log.AccessLogPath)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if _, err := os.Stat(cfg.Log.AccessLogPath); err != nil {
		slog.Warn("access log not readable at startup; log queries will return empty results",
			"path", cfg.Log.AccessLogPath, "error", err)
	}

	e.Logger.Fatal(e.StartServer(s))
}
