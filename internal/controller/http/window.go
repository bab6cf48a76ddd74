package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
	"github.com/sharmayn/autoposter/internal/httpx/response"
)

// WindowPolicy defines the interface for posting window operations
type WindowPolicy interface {
	ListWindows(ctx context.Context) ([]entity.PlatformWindow, error)
	UpdateWindow(ctx context.Context, w *entity.PlatformWindow) error
}

// WindowHandler handles HTTP requests for platform posting windows
type WindowHandler struct {
	policy WindowPolicy
}

// NewWindowHandler creates a new window handler
func NewWindowHandler(p WindowPolicy) *WindowHandler {
	return &WindowHandler{policy: p}
}

// RegisterRoutes registers window routes
func (h *WindowHandler) RegisterRoutes(r chi.Router) {
	r.Get("/windows", h.List())
	r.Put("/windows/{platform}", h.Update())
}

// List handles GET /windows
func (h *WindowHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		windows, err := h.policy.ListWindows(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, map[string]interface{}{"windows": windows})
	}
}

// UpdateWindowRequest represents the request body for updating a window
type UpdateWindowRequest struct {
	MinHour         int  `json:"min_hour"`
	MaxHour         int  `json:"max_hour"`
	MinDelayMinutes int  `json:"min_delay_minutes"`
	MaxDelayMinutes int  `json:"max_delay_minutes"`
	Enabled         bool `json:"enabled"`
}

// Update handles PUT /windows/{platform}
func (h *WindowHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := entity.Platform(chi.URLParam(r, "platform"))
		if !platform.IsValid() {
			response.BadRequest(w, entity.ErrInvalidPlatform.Error())
			return
		}

		var req UpdateWindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		window := &entity.PlatformWindow{
			Platform:        platform,
			MinHour:         req.MinHour,
			MaxHour:         req.MaxHour,
			MinDelayMinutes: req.MinDelayMinutes,
			MaxDelayMinutes: req.MaxDelayMinutes,
			Enabled:         req.Enabled,
		}

		if err := h.policy.UpdateWindow(r.Context(), window); err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, window)
	}
}
