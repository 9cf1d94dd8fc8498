package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kmsblog/blogapi/core"
	"github.com/kmsblog/blogapi/pkg/binder"
)

// Handler exposes the authentication HTTP surface.
type Handler struct {
	service  *Service
	oauth    *OAuthService
	sessions *SessionManager
	frontend string
}

// NewHandler wires the auth services into an HTTP handler.
func NewHandler(service *Service, oauth *OAuthService, sessions *SessionManager, frontendOrigin string) *Handler {
	return &Handler{
		service:  service,
		oauth:    oauth,
		sessions: sessions,
		frontend: frontendOrigin,
	}
}

// Routes mounts the auth endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/kakao", h.kakaoRedirect)
	r.Get("/kakao/callback", h.kakaoCallback)

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireAuth)
		r.Get("/profile", h.profile)
	})
	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := binder.JSON(r, &req); err != nil {
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return
	}

	_, err := h.service.Register(r.Context(), req.Email, req.Nickname, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			core.Error(w, core.NewHTTPError(http.StatusConflict, "email already exists"))
		case errors.Is(err, ErrNicknameAlreadyExists):
			core.Error(w, core.NewHTTPError(http.StatusConflict, "nickname already exists"))
		case errors.Is(err, ErrInvalidInput):
			core.Error(w, core.NewHTTPError(http.StatusBadRequest, err.Error()))
		default:
			core.Error(w, err)
		}
		return
	}

	core.Message(w, http.StatusCreated, "registration successful")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := binder.JSON(r, &req); err != nil {
		core.Error(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Error(w, core.NewHTTPError(http.StatusConflict, "invalid email or password"))
			return
		}
		core.Error(w, err)
		return
	}

	if _, err := h.sessions.Issue(w, user); err != nil {
		core.Error(w, err)
		return
	}

	core.JSON(w, http.StatusOK, loginResponse{
		ID:       user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	core.Message(w, http.StatusOK, "logged out")
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		core.Error(w, core.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		return
	}

	user, err := h.service.Profile(r.Context(), claims)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			core.Error(w, core.NewHTTPError(http.StatusNotFound, "user not found"))
			return
		}
		core.Error(w, err)
		return
	}

	core.JSON(w, http.StatusOK, user)
}

func (h *Handler) kakaoRedirect(w http.ResponseWriter, r *http.Request) {
	url, err := h.oauth.AuthURL(r.Context())
	if err != nil {
		core.Error(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) kakaoCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	user, err := h.oauth.HandleCallback(r.Context(), code, state)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCode):
			core.Error(w, core.NewHTTPError(http.StatusBadRequest, "authorization code is required"))
		case errors.Is(err, ErrInvalidState):
			core.Error(w, core.NewHTTPError(http.StatusForbidden, "invalid oauth state"))
		case errors.Is(err, ErrTokenExchange), errors.Is(err, ErrProfileFetch):
			core.Error(w, core.NewHTTPError(http.StatusBadGateway, "kakao login failed"))
		default:
			core.Error(w, err)
		}
		return
	}

	if _, err := h.sessions.Issue(w, user); err != nil {
		core.Error(w, err)
		return
	}

	http.Redirect(w, r, h.frontend, http.StatusFound)
}
