package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/Dan9191/eco-market/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Manager issues signed session tokens. The token carries the session id and
// owner; the Store remains the source of truth, so a destroyed session stays
// invalid even while its token is unexpired.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager builds a Manager backed by store and signing tokens with secret.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create starts a session for userID and returns the client token.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	id, err := utils.RandomHex(32)
	if err != nil {
		return "", err
	}
	now := m.now()
	sess := &models.Session{ID: id, UserID: userID, ExpiresAt: now.Add(m.ttl)}
	if err := m.store.Save(ctx, sess); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Resolve returns the user owning token, or common.ErrInvalidSession.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	claims, err := m.parse(token)
	if err != nil {
		return "", err
	}

	sess, err := m.store.Load(ctx, claims.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return "", common.ErrInvalidSession
	}
	if err != nil {
		return "", err
	}
	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, sess.ID)
		return "", common.ErrInvalidSession
	}
	if sess.UserID != claims.Subject {
		return "", common.ErrInvalidSession
	}
	return sess.UserID, nil
}

// Destroy ends the session behind token. Unknown, expired or malformed
// tokens are ignored.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.ID)
}

func (m *Manager) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, common.ErrInvalidSession
	}
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || claims.ID == "" {
		return nil, common.ErrInvalidSession
	}
	return claims, nil
}
