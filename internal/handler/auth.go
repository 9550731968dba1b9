package handler

import (
	"errors"
	"net/http"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/middleware"
	"github.com/Dan9191/eco-market/internal/models"
)

type formDescriptor struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

// SignupForm describes the registration form
func (h *Handler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, formDescriptor{
		Action: "/auth/signup",
		Fields: []string{"username", "password", "email", "address"},
	})
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, http.StatusBadRequest, "Error creating user.")
		return
	}

	_, err := h.svc.Register(r.Context(), models.Signup{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		Email:    r.PostForm.Get("email"),
		Address:  r.PostForm.Get("address"),
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, common.ErrStoreUnavailable) {
			h.log.Errorf("Signup failed: %v", err)
			status = http.StatusInternalServerError
		}
		h.writeError(w, status, "Error creating user.")
		return
	}

	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// LoginForm describes the login form
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, formDescriptor{
		Action: middleware.LoginPath,
		Fields: []string{"username", "password"},
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid username or password")
		return
	}

	token, err := h.svc.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if errors.Is(err, common.ErrInvalidCredentials) {
		h.writeError(w, http.StatusBadRequest, "Invalid username or password")
		return
	}
	if err != nil {
		h.log.Errorf("Login failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout ends the current session, if there is one
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.log.Warnf("Logout: %v", err)
		}
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}
