package handler

import (
	"net/http"

	"github.com/Dan9191/task-tracker/internal/middleware"
	"github.com/gorilla/mux"
)

// Router wires every endpoint. Task routes and logout sit behind the bearer auth middleware.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(h.log))
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	// Public routes
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(h.svc, h.log))
	protected.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/tasks", h.ListTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/export", h.ExportTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id:[0-9]+}", h.UpdateTask).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id:[0-9]+}", h.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id:[0-9]+}/toggle", h.ToggleTask).Methods(http.MethodPut)

	return r
}
