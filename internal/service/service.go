package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/config"
	"github.com/Dan9191/eco-market/internal/metrics"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/Dan9191/eco-market/internal/repository"
	"github.com/Dan9191/eco-market/internal/storage"
	"github.com/Dan9191/eco-market/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sessions is the part of the session manager the service drives.
type Sessions interface {
	Create(ctx context.Context, userID string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Mailer sends account notifications.
type Mailer interface {
	SendWelcome(to, username string) error
}

// Service handles business logic
type Service struct {
	repo     repository.UserStore
	sessions Sessions
	files    storage.FileStore
	mailer   Mailer
	validate *validator.Validate
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time
	mail     sync.WaitGroup
}

// NewService initializes a new service. mailer may be nil.
func NewService(repo repository.UserStore, sessions Sessions, files storage.FileStore, mailer Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		files:    files,
		mailer:   mailer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
		config:   cfg,
		now:      time.Now,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, in models.Signup) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		metrics.RecordAuthAttempt("signup", false)
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	hashedPassword, err := utils.HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hashedPassword,
		Email:        in.Email,
		Address:      in.Address,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		metrics.RecordAuthAttempt("signup", false)
		return nil, err
	}

	metrics.RecordAuthAttempt("signup", true)
	s.log.WithField("user_id", user.ID).Infof("User registered: %s", user.Username)
	s.sendWelcome(user)
	return user, nil
}

// Login authenticates a user and returns a session token
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, common.ErrorNotFound) {
		metrics.RecordAuthAttempt("login", false)
		return "", common.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		metrics.RecordAuthAttempt("login", false)
		return "", common.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	metrics.RecordAuthAttempt("login", true)
	s.log.WithField("user_id", user.ID).Infof("User logged in: %s", user.Username)
	return token, nil
}

// Logout ends the session behind token
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// GetUser returns the user with the given id
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// Wait blocks until queued notification mails are sent.
func (s *Service) Wait() {
	s.mail.Wait()
}

func (s *Service) sendWelcome(user *models.User) {
	if s.mailer == nil || user.Email == "" {
		return
	}
	to, name := user.Email, user.Username
	s.mail.Add(1)
	go func() {
		defer s.mail.Done()
		if err := s.mailer.SendWelcome(to, name); err != nil {
			s.log.Warnf("Welcome email not delivered: %v", err)
		}
	}()
}
