package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Dan9191/task-tracker/internal/middleware"
	"github.com/Dan9191/task-tracker/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Pinger reports store reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc      *service.Service
	db       Pinger
	log      *logrus.Logger
	validate *validator.Validate
}

func NewHandler(svc *service.Service, db Pinger, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, db: db, log: log, validate: newValidator()}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.svc.Register(r.Context(), req.Username, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusCreated, "User registered successfully")
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

// Logout revokes the bearer token used for this request
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "Missing or malformed authorization header")
		return
	}
	if err := h.svc.Logout(r.Context(), claims); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "Logged out")
}

// Health reports whether the database answers
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
