package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/metrics"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/Dan9191/eco-market/internal/utils"
)

var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// UploadProfilePicture stores file under a name owned by userID and points
// that user's profile picture at it. A nil file is a no-op.
func (s *Service) UploadProfilePicture(ctx context.Context, userID string, file *models.Upload) (*models.User, error) {
	if file == nil {
		return s.repo.FindByID(ctx, userID)
	}

	if s.config.MaxUploadBytes > 0 && file.Size > s.config.MaxUploadBytes {
		metrics.RecordUpload(false)
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, s.config.MaxUploadBytes)
	}
	ext, err := uploadExtension(file.Filename)
	if err != nil {
		metrics.RecordUpload(false)
		return nil, err
	}

	name, err := s.uploadName(userID, ext)
	if err != nil {
		return nil, err
	}

	ref, err := s.files.Save(ctx, name, file.Content)
	if err != nil {
		metrics.RecordUpload(false)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	user, err := s.repo.Update(ctx, userID, models.UserUpdate{ProfilePicture: &ref})
	if err != nil {
		if rmErr := s.files.Remove(ctx, name); rmErr != nil {
			s.log.Errorf("Failed to remove orphaned upload %s: %v", name, rmErr)
		}
		metrics.RecordUpload(false)
		return nil, err
	}

	metrics.RecordUpload(true)
	s.log.WithField("user_id", userID).Infof("Profile picture stored at %s", ref)
	return user, nil
}

// uploadName is {userID}-{unixMillis}-{random}{ext}.
func (s *Service) uploadName(userID, ext string) (string, error) {
	suffix, err := utils.RandomHex(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s%s", userID, s.now().UnixMilli(), suffix, ext), nil
}

func uploadExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		return "", nil
	}
	if !extPattern.MatchString(ext) {
		return "", fmt.Errorf("%w: unsupported file extension %q", common.ErrValidation, ext)
	}
	return ext, nil
}
