package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/sirupsen/logrus"
)

// SessionCookie carries the session token.
const SessionCookie = "sid"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/auth/login"

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// UserFinder looks up users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type contextKey string

const userIDContextKey contextKey = "user_id"

// WithUserID injects the authenticated user id into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok && id != ""
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireLogin only lets through requests carrying a live session of an
// existing user. Everything else is redirected to the login page.
func RequireLogin(sessions SessionResolver, users UserFinder, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			userID, err := sessions.Resolve(ctx, cookie.Value)
			if errors.Is(err, common.ErrInvalidSession) {
				ClearSessionCookie(w)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			if err != nil {
				log.Errorf("Failed to resolve session: %v", err)
				http.Error(w, "Server error", http.StatusInternalServerError)
				return
			}

			if _, err := users.FindByID(ctx, userID); err != nil {
				if !errors.Is(err, common.ErrorNotFound) {
					log.Errorf("Failed to load session user: %v", err)
					http.Error(w, "Server error", http.StatusInternalServerError)
					return
				}
				log.WithField("user_id", userID).Warn("Session refers to a deleted user")
				if err := sessions.Destroy(ctx, cookie.Value); err != nil {
					log.Warnf("Failed to destroy dangling session: %v", err)
				}
				ClearSessionCookie(w)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
		})
	}
}
