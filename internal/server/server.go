package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/get-it-done/internal/service"
)

// HealthChecker reports the state of the storage backend.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Config holds the HTTP settings.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// ConfigFromEnv reads PORT and CORS_ALLOWED_ORIGINS, falling back to
// defaults on missing or invalid values.
func ConfigFromEnv() Config {
	cfg := Config{
		Port:           8080,
		AllowedOrigins: []string{"https://*", "http://*"},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			log.Printf("Warning: Invalid PORT environment variable '%s'. Using default %d.", portStr, cfg.Port)
		} else {
			cfg.Port = port
		}
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg
}

type Server struct {
	cfg         Config
	taskService service.TaskService
	db          HealthChecker
}

// New wires the handlers to their dependencies.
func New(cfg Config, taskService service.TaskService, db HealthChecker) *Server {
	return &Server{
		cfg:         cfg,
		taskService: taskService,
		db:          db,
	}
}

// NewServer returns an http.Server serving the task list on cfg.Port.
func NewServer(cfg Config, taskService service.TaskService, db HealthChecker) *http.Server {
	appServer := New(cfg, taskService, db)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
