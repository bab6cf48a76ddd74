package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
	"github.com/sharmayn/autoposter/internal/domain/queue/policy"
	"github.com/sharmayn/autoposter/internal/httpx/response"
)

// QueuePolicy defines the interface for queue operations
// Interface is defined by consumer (handler), not provider (policy)
type QueuePolicy interface {
	SubmitContent(ctx context.Context, in policy.SubmitContentInput) (*entity.ContentItem, error)
	GetContent(ctx context.Context, id string) (*entity.ContentItem, []entity.ScheduleEntry, error)
	ListContent(ctx context.Context, limit, offset int) ([]entity.ContentItem, error)
	Upcoming(ctx context.Context, limit int) ([]entity.DueEntry, error)
	GetStatistics(ctx context.Context) (*entity.QueueStatistics, error)
	GetProgress(ctx context.Context, limit, offset int) ([]entity.ItemProgress, error)
}

// QueueHandler handles HTTP requests for the content queue
type QueueHandler struct {
	policy QueuePolicy
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(p QueuePolicy) *QueueHandler {
	return &QueueHandler{policy: p}
}

// RegisterRoutes registers queue routes
func (h *QueueHandler) RegisterRoutes(r chi.Router) {
	r.Route("/queue", func(r chi.Router) {
		r.Post("/", h.Submit())
		r.Get("/", h.List())
		r.Get("/upcoming", h.Upcoming())
		r.Get("/stats", h.Stats())
		r.Get("/progress", h.Progress())
		r.Get("/{id}", h.Get())
	})
}

// SubmitRequest represents the request body for submitting content
type SubmitRequest struct {
	MediaPath   string `json:"media_path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Submit handles POST /queue
func (h *QueueHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		item, err := h.policy.SubmitContent(r.Context(), policy.SubmitContentInput{
			MediaPath:   req.MediaPath,
			Title:       req.Title,
			Description: req.Description,
			Link:        req.Link,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.Created(w, item)
	}
}

// GetResponse represents a content item with its schedule entries
type GetResponse struct {
	Item    *entity.ContentItem    `json:"item"`
	Entries []entity.ScheduleEntry `json:"entries"`
}

// Get handles GET /queue/{id}
func (h *QueueHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		item, entries, err := h.policy.GetContent(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, GetResponse{Item: item, Entries: entries})
	}
}

// ListResponse represents the response for listing content items
type ListResponse struct {
	Items  []entity.ContentItem `json:"items"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// List handles GET /queue
func (h *QueueHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := parsePagination(r, 50)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		items, err := h.policy.ListContent(r.Context(), limit, offset)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, ListResponse{Items: items, Limit: limit, Offset: offset})
	}
}

// UpcomingResponse represents the response for upcoming posts
type UpcomingResponse struct {
	Entries []entity.DueEntry `json:"entries"`
}

// Upcoming handles GET /queue/upcoming
func (h *QueueHandler) Upcoming() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			li, err := strconv.Atoi(l)
			if err != nil || li < 1 {
				response.BadRequest(w, "invalid limit")
				return
			}
			if li > 100 {
				li = 100
			}
			limit = li
		}

		entries, err := h.policy.Upcoming(r.Context(), limit)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, UpcomingResponse{Entries: entries})
	}
}

// Stats handles GET /queue/stats
func (h *QueueHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.policy.GetStatistics(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, stats)
	}
}

// ProgressResponse represents the response for per-item progress
type ProgressResponse struct {
	Items  []entity.ItemProgress `json:"items"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// Progress handles GET /queue/progress
func (h *QueueHandler) Progress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := parsePagination(r, 50)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		items, err := h.policy.GetProgress(r.Context(), limit, offset)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, ProgressResponse{Items: items, Limit: limit, Offset: offset})
	}
}

// Helper functions

var errInvalidLimit = errors.New("invalid limit")
var errInvalidOffset = errors.New("invalid offset")

func parsePagination(r *http.Request, defaultLimit int) (limit, offset int, err error) {
	q := r.URL.Query()

	limit = defaultLimit
	if l := q.Get("limit"); l != "" {
		li, err := strconv.Atoi(l)
		if err != nil || li < 1 {
			return 0, 0, errInvalidLimit
		}
		if li > 100 {
			li = 100
		}
		limit = li
	}
	if o := q.Get("offset"); o != "" {
		oi, err := strconv.Atoi(o)
		if err != nil || oi < 0 {
			return 0, 0, errInvalidOffset
		}
		offset = oi
	}

	return limit, offset, nil
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrContentNotFound),
		errors.Is(err, entity.ErrAccountNotFound),
		errors.Is(err, entity.ErrWindowNotFound),
		errors.Is(err, entity.ErrScheduleNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, entity.ErrEmptyMediaPath),
		errors.Is(err, entity.ErrEmptyTitle),
		errors.Is(err, entity.ErrEmptyAccountName),
		errors.Is(err, entity.ErrEmptyProfileID),
		errors.Is(err, entity.ErrInvalidPlatform),
		errors.Is(err, entity.ErrHourOutOfRange):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "internal server error")
	}
}
