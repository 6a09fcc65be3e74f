package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/get-it-done/internal/service"
	"github.com/Tomlord1122/get-it-done/internal/view"
)

// Form field names posted by the task list page.
const (
	fieldTask   = "task"
	fieldTaskID = "task-id"
)

// maxFormMemory bounds the part of a multipart body kept in memory.
const maxFormMemory = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.indexHandler)
	r.Post("/", s.createTaskHandler)
	r.Post("/delete-task", s.completeTaskHandler)

	r.Get("/health", s.healthHandler)

	return r
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.renderBoard(w, r, http.StatusOK, "")
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		s.renderBoard(w, r, http.StatusBadRequest, "Request body contains a malformed form")
		return
	}

	_, err := s.taskService.CreateTask(r.Context(), service.CreateTaskRequest{Name: r.PostFormValue(fieldTask)})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			s.renderBoard(w, r, http.StatusBadRequest, userMessage(err))
		} else {
			log.Printf("Error calling CreateTask service: %v", err)
			http.Error(w, "Failed to create task", http.StatusInternalServerError)
		}
		return
	}

	s.renderBoard(w, r, http.StatusOK, "")
}

func (s *Server) completeTaskHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "Request body contains a malformed form", http.StatusBadRequest)
		return
	}

	idStr := strings.TrimSpace(r.PostFormValue(fieldTaskID))
	id, err := strconv.ParseUint(idStr, 10, strconv.IntSize)
	if err != nil || id == 0 {
		http.Error(w, "Invalid task ID provided", http.StatusBadRequest)
		return
	}

	if _, err := s.taskService.CompleteTask(r.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			http.Error(w, userMessage(err), http.StatusBadRequest)
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, userMessage(err), http.StatusNotFound)
		default:
			log.Printf("Error calling CompleteTask service: %v", err)
			http.Error(w, "Failed to complete task", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health(r.Context())
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

// renderBoard loads both task lists and writes the page with the given
// status. The page is rendered into a buffer so a template failure can
// still become a 500.
func (s *Server) renderBoard(w http.ResponseWriter, r *http.Request, code int, errMsg string) {
	board, err := s.taskService.GetBoard(r.Context())
	if err != nil {
		log.Printf("Error calling GetBoard service: %v", err)
		http.Error(w, "Failed to retrieve tasks", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = view.Render(&buf, view.Page{
		Title:          view.DefaultTitle,
		Error:          errMsg,
		Tasks:          board.Pending,
		CompletedTasks: board.Completed,
	})
	if err != nil {
		log.Printf("Error rendering task list: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// userMessage strips the error kind prefix, leaving the detail.
func userMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
