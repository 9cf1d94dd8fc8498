package notifications

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kmsblog/blogapi/core"
	"github.com/kmsblog/blogapi/modules/auth"
)

// Handler exposes the notification HTTP surface. Every endpoint requires
// an authenticated session.
type Handler struct {
	service  *Service
	sessions *auth.SessionManager
}

// NewHandler wires the notification service into an HTTP handler.
func NewHandler(service *Service, sessions *auth.SessionManager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes mounts the notification endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.sessions.RequireAuth)
	r.Get("/", h.list)
	r.Put("/{notificationID}/read", h.markRead)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	items, err := h.service.List(r.Context(), claims.Subject)
	if err != nil {
		core.Error(w, err)
		return
	}
	if items == nil {
		items = []Notification{}
	}
	core.JSON(w, http.StatusOK, items)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	err := h.service.MarkRead(r.Context(), chi.URLParam(r, "notificationID"), claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotificationNotFound):
			core.Error(w, core.NewHTTPError(http.StatusNotFound, "notification not found"))
		case errors.Is(err, ErrNotRecipient):
			core.Error(w, core.NewHTTPError(http.StatusForbidden, "not your notification"))
		default:
			core.Error(w, err)
		}
		return
	}
	core.Message(w, http.StatusOK, "notification read")
}
