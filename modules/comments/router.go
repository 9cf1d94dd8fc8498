package comments

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kmsblog/blogapi/core"
	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/modules/posts"
	"github.com/kmsblog/blogapi/pkg/binder"
)

// Handler exposes the comment HTTP surface.
type Handler struct {
	service  *Service
	sessions *auth.SessionManager
}

// NewHandler wires the comment service into an HTTP handler.
func NewHandler(service *Service, sessions *auth.SessionManager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes mounts the comment endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{postID}", h.listByPost)

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireAuth)
		r.Post("/", h.create)
		r.Put("/{commentID}", h.update)
		r.Delete("/{commentID}", h.remove)
	})
	return r
}

func writeCommentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCommentNotFound):
		core.Error(w, core.NewHTTPError(http.StatusNotFound, "comment not found"))
	case errors.Is(err, posts.ErrPostNotFound):
		core.Error(w, core.NewHTTPError(http.StatusNotFound, "post not found"))
	case errors.Is(err, ErrNotAuthor):
		core.Error(w, core.NewHTTPError(http.StatusForbidden, "only the author may do that"))
	case errors.Is(err, ErrInvalidInput):
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, err.Error()))
	default:
		core.Error(w, err)
	}
}

type createRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	var req createRequest
	if err := binder.JSON(r, &req); err != nil {
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return
	}

	comment, err := h.service.Create(r.Context(), claims.Subject, claims.Nickname, req.PostID, req.Content)
	if err != nil {
		writeCommentError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, comment)
}

func (h *Handler) listByPost(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeCommentError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, items)
}

type updateRequest struct {
	Content string `json:"content"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	var req updateRequest
	if err := binder.JSON(r, &req); err != nil {
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return
	}

	comment, err := h.service.Update(r.Context(), chi.URLParam(r, "commentID"), claims.Subject, req.Content)
	if err != nil {
		writeCommentError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, comment)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "commentID"), claims.Subject); err != nil {
		writeCommentError(w, err)
		return
	}
	core.Message(w, http.StatusOK, "comment deleted")
}
