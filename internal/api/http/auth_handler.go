package http

import (
	"net/http"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/service"
)

type AuthHandler struct {
	authSvc      service.AuthService
	cookieTTL    time.Duration
	secureCookie bool
}

// NewAuthHandler issues the auth cookie with the given lifetime. secureCookie
// sets the Secure attribute and belongs on for https deployments.
func NewAuthHandler(authSvc service.AuthService, cookieTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookieTTL: cookieTTL, secureCookie: secureCookie}
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.authSvc.Signup(r.Context(), req.Name, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{Message: "User created successfully.", User: user})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, token, err := h.authSvc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, userResponse{Message: "Sign in successful.", Token: token, User: user})
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, messageResponse{Message: "Signed out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authSvc.Me(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}
