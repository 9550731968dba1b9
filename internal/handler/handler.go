package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Dan9191/eco-market/internal/config"
	"github.com/Dan9191/eco-market/internal/integrations/catalog"
	"github.com/Dan9191/eco-market/internal/middleware"
	"github.com/Dan9191/eco-market/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc     *service.Service
	catalog *catalog.Catalog
	config  *config.Config
	log     *logrus.Logger
}

func NewHandler(svc *service.Service, cat *catalog.Catalog, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, catalog: cat, config: cfg, log: log}
}

// errorBody is the payload of every failed page request.
type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorBody{Error: msg})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// userID is only called behind RequireLogin.
func userID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// postField returns nil when key was not submitted at all.
func postField(r *http.Request, key string) *string {
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}
