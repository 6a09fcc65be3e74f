package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/get-it-done/internal/database"
	"github.com/Tomlord1122/get-it-done/internal/repository"
	"github.com/Tomlord1122/get-it-done/internal/server"
	"github.com/Tomlord1122/get-it-done/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Closing database connection pool...")
	if err := dbService.Close(); err != nil {
		log.Printf("Error closing database connection pool: %v", err)
	} else {
		log.Println("Database connection pool closed.")
	}

	log.Println("Server exiting")

	done <- true
}

func main() {
	dbConfig, err := database.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}

	dbService, err := database.New(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Running database migration...")
	if err := dbService.Migrate(context.Background()); err != nil {
		_ = dbService.Close()
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration complete.")

	taskRepo := repository.NewGormTaskRepository(dbService.GetDB())
	taskService := service.NewTaskService(taskRepo)
	apiServer := server.NewServer(server.ConfigFromEnv(), taskService, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
