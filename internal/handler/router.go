package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/eco-market/internal/middleware"
)

type RouterConfig struct {
	Handler *Handler
	// RequireLogin guards every page behind a session
	RequireLogin func(http.Handler) http.Handler
	Secure       func(http.Handler) http.Handler
	// UploadDir is served under /uploads/ when set
	UploadDir string
	Log       *logrus.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(cfg.Log))
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if cfg.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
		).Methods(http.MethodGet)
	}

	// Public routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", h.SignupForm).Methods(http.MethodGet)
	auth.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.LoginForm).Methods(http.MethodGet)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodGet, http.MethodPost)

	r.Handle("/", http.RedirectHandler("/home", http.StatusSeeOther)).Methods(http.MethodGet)

	// Protected routes
	pages := r.NewRoute().Subrouter()
	pages.Use(cfg.RequireLogin)
	pages.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	pages.HandleFunc("/dashboard/profile-pic", h.UploadProfilePicture).Methods(http.MethodPost)
	pages.HandleFunc("/settings", h.Settings).Methods(http.MethodGet)
	pages.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPost)
	pages.HandleFunc("/home", h.Home).Methods(http.MethodGet)
	pages.HandleFunc("/listings", h.Listings).Methods(http.MethodGet)
	pages.HandleFunc("/cart", h.Cart).Methods(http.MethodGet)
	pages.HandleFunc("/product/{id}", h.Product).Methods(http.MethodGet)

	return r
}
