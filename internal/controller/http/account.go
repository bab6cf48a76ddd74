package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
	"github.com/sharmayn/autoposter/internal/domain/queue/policy"
	"github.com/sharmayn/autoposter/internal/httpx/response"
)

// AccountPolicy defines the interface for account operations
type AccountPolicy interface {
	RegisterAccount(ctx context.Context, in policy.RegisterAccountInput) (*entity.Account, error)
	ListAccounts(ctx context.Context) ([]entity.Account, error)
	SetAccountEnabled(ctx context.Context, id string, enabled bool) error
	DeleteAccount(ctx context.Context, id string) error
}

// AccountHandler handles HTTP requests for posting accounts
type AccountHandler struct {
	policy AccountPolicy
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(p AccountPolicy) *AccountHandler {
	return &AccountHandler{policy: p}
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.Register())
		r.Get("/", h.List())
		r.Post("/{id}/enable", h.SetEnabled(true))
		r.Post("/{id}/disable", h.SetEnabled(false))
		r.Delete("/{id}", h.Delete())
	})
}

// RegisterAccountRequest represents the request body for registering an account
type RegisterAccountRequest struct {
	Platform  string `json:"platform"`
	Name      string `json:"name"`
	ProfileID string `json:"profile_id"`
}

// Register handles POST /accounts
func (h *AccountHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		platform := entity.Platform(req.Platform)
		if !platform.IsValid() {
			response.BadRequest(w, entity.ErrInvalidPlatform.Error())
			return
		}

		acc, err := h.policy.RegisterAccount(r.Context(), policy.RegisterAccountInput{
			Platform:  platform,
			Name:      req.Name,
			ProfileID: req.ProfileID,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.Created(w, acc)
	}
}

// List handles GET /accounts
func (h *AccountHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := h.policy.ListAccounts(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, map[string]interface{}{
			"accounts": accounts,
			"total":    len(accounts),
		})
	}
}

// SetEnabled handles POST /accounts/{id}/enable and /accounts/{id}/disable
func (h *AccountHandler) SetEnabled(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.policy.SetAccountEnabled(r.Context(), id, enabled); err != nil {
			handleDomainError(w, err)
			return
		}

		response.NoContent(w)
	}
}

// Delete handles DELETE /accounts/{id}
func (h *AccountHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.policy.DeleteAccount(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		response.NoContent(w)
	}
}
