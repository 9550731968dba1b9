package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/Dan9191/eco-market/internal/utils"
)

// UpdateProfile applies the non-empty fields of in to the user's record.
// Empty or missing fields keep their stored value. A new password is hashed
// before it reaches the store. On error nothing is written.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in models.ProfileUpdate) (*models.User, error) {
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		in.Username = &trimmed
	}
	in = models.ProfileUpdate{
		Username:       nonEmpty(in.Username),
		Email:          nonEmpty(in.Email),
		Address:        nonEmpty(in.Address),
		Password:       nonEmpty(in.Password),
		ProfilePicture: nonEmpty(in.ProfilePicture),
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	upd := models.UserUpdate{
		Username:       in.Username,
		Email:          in.Email,
		Address:        in.Address,
		ProfilePicture: in.ProfilePicture,
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password, s.config.BcryptCost)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, userID, upd)
	if err != nil {
		s.log.WithField("user_id", userID).Warnf("Profile update rejected: %v", err)
		return nil, err
	}

	s.log.WithField("user_id", userID).Info("Profile updated")
	return user, nil
}

func nonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
