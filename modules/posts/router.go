package posts

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kmsblog/blogapi/core"
	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/pkg/binder"
)

const maxUploadMemory = 10 << 20

// Handler exposes the post HTTP surface.
type Handler struct {
	service  *Service
	sessions *auth.SessionManager
}

// NewHandler wires the post service into an HTTP handler.
func NewHandler(service *Service, sessions *auth.SessionManager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes mounts the post endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{postID}", h.get)
	r.Get("/search/{query}", h.search)

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireAuth)
		r.Post("/", h.create)
		r.Put("/{postID}", h.update)
		r.Delete("/{postID}", h.remove)
		r.Post("/{postID}/like", h.toggleLike)
	})
	return r
}

func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		core.Error(w, core.NewHTTPError(http.StatusNotFound, "post not found"))
	case errors.Is(err, ErrNotAuthor):
		core.Error(w, core.NewHTTPError(http.StatusForbidden, "only the author may do that"))
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidCover):
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, err.Error()))
	default:
		core.Error(w, err)
	}
}

// isMultipart reports whether the request carries form-encoded fields
// rather than a JSON body.
func isMultipart(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && ct == "multipart/form-data"
}

type postBody struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// parsePostForm accepts either a multipart form (with an optional cover
// file) or a JSON body.
func parsePostForm(r *http.Request) (postBody, *multipart.FileHeader, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return postBody{}, nil, err
		}
		body := postBody{
			Title:   r.FormValue("title"),
			Summary: r.FormValue("summary"),
			Content: r.FormValue("content"),
		}
		var cover *multipart.FileHeader
		if files := r.MultipartForm.File["cover"]; len(files) > 0 {
			cover = files[0]
		}
		return body, cover, nil
	}

	var body postBody
	if err := binder.JSON(r, &body); err != nil {
		return postBody{}, nil, err
	}
	return body, nil, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	body, cover, err := parsePostForm(r)
	if err != nil {
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return
	}

	post, err := h.service.Create(r.Context(), claims.Subject, claims.Nickname, CreateInput{
		Title:   body.Title,
		Summary: body.Summary,
		Content: body.Content,
		Cover:   cover,
	})
	if err != nil {
		writePostError(w, err)
		return
	}

	core.JSON(w, http.StatusCreated, post)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", defaultPageLimit)

	result, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		writePostError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writePostError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, post)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	items, err := h.service.Search(r.Context(), query)
	if err != nil {
		writePostError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, items)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	body, cover, err := parsePostForm(r)
	if err != nil {
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return
	}

	in := UpdateInput{Cover: cover}
	if strings.TrimSpace(body.Title) != "" {
		in.Title = &body.Title
	}
	if body.Summary != "" {
		in.Summary = &body.Summary
	}
	if body.Content != "" {
		in.Content = &body.Content
	}

	post, err := h.service.Update(r.Context(), chi.URLParam(r, "postID"), claims.Subject, in)
	if err != nil {
		writePostError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, post)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "postID"), claims.Subject); err != nil {
		writePostError(w, err)
		return
	}
	core.Message(w, http.StatusOK, "post deleted")
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	result, err := h.service.ToggleLike(r.Context(), chi.URLParam(r, "postID"), claims.Subject)
	if err != nil {
		writePostError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
