package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/svgscript/internal/asset"
	"github.com/inamate/svgscript/internal/auth"
	"github.com/inamate/svgscript/internal/collab"
	"github.com/inamate/svgscript/internal/config"
	"github.com/inamate/svgscript/internal/db"
	"github.com/inamate/svgscript/internal/engine"
	mw "github.com/inamate/svgscript/internal/middleware"
	"github.com/inamate/svgscript/internal/project"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store project.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("migrate database", "error", err)
			os.Exit(1)
		}
		store = project.NewPostgresStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, drawings are kept in memory")
		store = project.NewMemoryStore()
	}

	authService := auth.NewService(cfg.APIKeyHash, cfg.JWTSecret)
	if !authService.Enabled() {
		logger.Warn("API_KEY_HASH not set, authentication disabled")
	}
	authHandler := auth.NewHandler(authService, logger)

	assets := asset.NewLibrary(cfg.AssetDir, logger)
	assetHandler := asset.NewHandler(assets, logger)

	eng := engine.New(
		engine.Page{Width: cfg.PageWidth, Height: cfg.PageHeight, Unit: cfg.PageUnit},
		engine.WithImages(assets),
		engine.WithLogger(logger),
	)

	projectService := project.NewService(store, eng, cfg.MaxScriptBytes, logger)
	projectHandler := project.NewHandler(projectService, logger)

	hub := collab.NewHub(projectService, logger)
	go hub.Run()
	previewHandler := collab.NewHandler(hub, authService, cfg.AllowedOrigins, logger)

	r := mux.NewRouter()

	r.Use(mw.Recovery(logger))
	r.Use(mw.Logger(logger))
	r.Use(mw.CORS(cfg.AllowedOrigins))

	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Stateless rendering
	r.HandleFunc("/render", projectHandler.Render).Methods("POST", "OPTIONS")
	r.HandleFunc("/sample", projectHandler.Sample).Methods("GET")

	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/drawings", projectHandler.List).Methods("GET")
	api.HandleFunc("/drawings", projectHandler.Create).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}", projectHandler.Update).Methods("PUT")
	api.HandleFunc("/drawings/{drawingId}", projectHandler.Delete).Methods("DELETE")
	api.HandleFunc("/drawings/{drawingId}/svg", projectHandler.SVG).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}/rerender", projectHandler.Rerender).Methods("POST")
	api.HandleFunc("/assets", assetHandler.Upload).Methods("POST")

	r.HandleFunc("/ws/preview/{drawingId}", previewHandler.Preview)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", "addr", addr, "page", fmt.Sprintf("%gx%g%s", cfg.PageWidth, cfg.PageHeight, cfg.PageUnit))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
