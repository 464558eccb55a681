package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitroom/internal/api"
	"github.com/mmynk/splitroom/internal/auth"
	"github.com/mmynk/splitroom/internal/config"
	"github.com/mmynk/splitroom/internal/middleware"
	"github.com/mmynk/splitroom/internal/service"
	"github.com/mmynk/splitroom/internal/storage"
	"github.com/mmynk/splitroom/internal/storage/sqlite"
	"github.com/mmynk/splitroom/pkg/logging"
)

// Procedures callable without a token.
var publicProcedures = []string{
	api.AuthServiceRegisterProcedure,
	api.AuthServiceLoginProcedure,
	api.GroupServiceListGroupsProcedure,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.SetupWith(cfg.LogLevel, cfg.LogFormat)
	logger := slog.Default()
	if cfg.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.EnsureGroups(ctx, store, cfg.BootstrapGroups, logger); err != nil {
		logger.Error("Failed to bootstrap groups", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store, cfg.BcryptCost)

	// Outermost first: metrics see rejected calls, logs see the caller.
	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.Authenticate(jwtManager, publicProcedures...),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(api.NewGroupServiceHandler(service.NewGroupService(store, cfg.IsAdmin, logger), interceptors))
	mux.Handle(api.NewExpenseServiceHandler(service.NewExpenseService(store, logger), interceptors))
	mux.Handle(api.NewDueServiceHandler(service.NewDueService(store, logger), interceptors))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("GET /healthz", healthz(store))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(logger, corsMiddleware(cfg.CORSOrigin, mux)), &http2.Server{})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Connect server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func healthz(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			slog.Warn("Health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}

// loggingMiddleware logs plain HTTP requests. RPCs are logged by the
// Connect interceptor, so only other paths are recorded here.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		if r.Method == http.MethodPost {
			return
		}
		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
