package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dsm-settlement/internal/api"
	"dsm-settlement/internal/config"
	"dsm-settlement/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logging.Setup()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.WithError(err).WithField("config_file", path).Fatal("failed to load config")
		}
		cfg = loaded
	}
	log.WithFields(logrus.Fields{
		"fallback_price": cfg.Fallback(),
		"currency":       cfg.Settlement.Currency,
		"sites":          len(cfg.Sites),
		"workers":        cfg.Settlement.Workers,
	}).Info("configuration loaded")

	gin.SetMode(api.Mode())
	router := api.NewRouter(api.Options{
		Config:   cfg,
		Log:      log,
		SitesDir: os.Getenv("SITES_DIR"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting API server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
