package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kmsblog/blogapi/core"
	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/pkg/binder"
)

// Handler exposes the user profile HTTP surface.
type Handler struct {
	service  *Service
	sessions *auth.SessionManager
}

// NewHandler wires the user service into an HTTP handler.
func NewHandler(service *Service, sessions *auth.SessionManager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes mounts the user endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireAuth)
		r.Get("/{nickname}/full", h.fullProfile)
		r.Put("/update", h.update)
	})
	return r
}

func (h *Handler) fullProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.FullProfile(r.Context(), chi.URLParam(r, "nickname"))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			core.Error(w, core.NewHTTPError(http.StatusNotFound, "user not found"))
			return
		}
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusOK, profile)
}

type updateRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
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

	user, err := h.service.UpdateProfile(r.Context(), claims.Subject, UpdateInput{
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNicknameAlreadyExists):
			core.Error(w, core.NewHTTPError(http.StatusConflict, "nickname already exists"))
		case errors.Is(err, auth.ErrUserNotFound):
			core.Error(w, core.NewHTTPError(http.StatusNotFound, "user not found"))
		case errors.Is(err, ErrInvalidInput):
			core.Error(w, core.NewHTTPError(http.StatusBadRequest, err.Error()))
		default:
			core.Error(w, err)
		}
		return
	}
	core.JSON(w, http.StatusOK, user)
}
