package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/shirleyamir/snap-split-cozy/internal/analyzer"
	"github.com/shirleyamir/snap-split-cozy/internal/config"
	"github.com/shirleyamir/snap-split-cozy/internal/metrics"
	"github.com/shirleyamir/snap-split-cozy/internal/relay"
	"github.com/shirleyamir/snap-split-cozy/internal/service"
	"github.com/shirleyamir/snap-split-cozy/internal/session"
	"github.com/shirleyamir/snap-split-cozy/internal/storage"
	"github.com/shirleyamir/snap-split-cozy/internal/storage/memory"
	"github.com/shirleyamir/snap-split-cozy/internal/storage/sqlite"
	"github.com/shirleyamir/snap-split-cozy/pkg/api"
	"github.com/shirleyamir/snap-split-cozy/pkg/api/apiconnect"
	"github.com/shirleyamir/snap-split-cozy/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info")
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Server.LogLevel)

	generated, err := cfg.EnsureSessionSecret()
	if err != nil {
		slog.Error("Failed to prepare session secret", "error", err)
		os.Exit(1)
	}
	if generated {
		slog.Warn("SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	m := metrics.New()

	// Receipt analysis relay
	cache, err := openCache(cfg.Analyzer)
	if err != nil {
		slog.Error("Failed to initialize analysis cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	client := analyzer.NewClient(cfg.Analyzer.APIKey,
		analyzer.WithEndpoint(cfg.Analyzer.Endpoint),
		analyzer.WithModel(cfg.Analyzer.Model),
		analyzer.WithMaxTokens(cfg.Analyzer.MaxTokens),
		analyzer.WithHTTPTimeout(cfg.Analyzer.Timeout.Duration),
	)
	if !client.Configured() {
		slog.Warn("OPENAI_API_KEY not set, receipt analysis will fail")
	}
	analysis := analyzer.NewService(client, cache, m)
	router := relay.NewRouter(relay.NewHandler(analysis, client.Configured()))

	// Split flow
	tokens := session.NewManager(cfg.Session.Secret, cfg.Session.TTL.Duration)
	flow := service.NewFlowService(tokens, service.SettingsFromConfig(cfg.Session), m)

	interceptors := service.Interceptors(tokens, m)

	mux := http.NewServeMux()

	flowPath, flowHandler := apiconnect.NewSplitFlowServiceHandler(flow, interceptors)
	mux.Handle(flowPath, flowHandler)
	mux.Handle("/api/", router)
	mux.Handle("/metrics", m.Handler())

	staticDir, err := filepath.Abs(cfg.Server.StaticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/snapsplit.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))

		// Client-side routes such as /camera and /assign fall back to the app.
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})

	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Server starting",
		"address", addr,
		"url", fmt.Sprintf("http://localhost%s", addr),
		"currency", cfg.Session.Currency,
		"model", cfg.Analyzer.Model,
	)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// openCache returns the SQLite cache when a path is configured, otherwise an
// in-memory one.
func openCache(cfg config.AnalyzerConfig) (storage.Cache, error) {
	if cfg.CachePath == "" {
		slog.Info("Analysis cache in memory", "entries", cfg.CacheEntries, "ttl", cfg.CacheTTL.Duration)
		return memory.New(cfg.CacheTTL.Duration, cfg.CacheEntries), nil
	}
	cache, err := sqlite.New(cfg.CachePath, cfg.CacheTTL.Duration, cfg.CacheEntries)
	if err != nil {
		return nil, err
	}
	slog.Info("Analysis cache initialized", "database", cfg.CachePath)
	return cache, nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access. The relay under
// /api/ answers CORS itself.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms, "+api.SessionHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+api.SessionHeader+", "+api.RedirectHeader)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
