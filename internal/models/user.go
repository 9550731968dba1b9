package models

import "time"

// User represents a user in the system
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"` // Not serialized
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	ProfilePicture string    `json:"profile_picture"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserUpdate is a partial update of a user record. A nil field is left
// untouched; a non-nil field is written even when it points to "".
type UserUpdate struct {
	Username       *string
	PasswordHash   *string
	Email          *string
	Address        *string
	ProfilePicture *string
}

// IsEmpty reports whether the update carries no fields.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.PasswordHash == nil && u.Email == nil &&
		u.Address == nil && u.ProfilePicture == nil
}

// Apply copies the present fields onto user.
func (u UserUpdate) Apply(user *User) {
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
	if u.ProfilePicture != nil {
		user.ProfilePicture = *u.ProfilePicture
	}
}

// ProfileUpdate is what a user submits from the settings page. The password
// is plaintext here and must be hashed before it becomes a UserUpdate.
type ProfileUpdate struct {
	Username       *string `validate:"omitempty,min=3,max=64"`
	Email          *string `validate:"omitempty,email,max=254"`
	Address        *string `validate:"omitempty,max=256"`
	Password       *string `validate:"omitempty,max=1024"`
	ProfilePicture *string `validate:"omitempty,max=512"`
}

// Signup is the registration payload.
type Signup struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,max=1024"`
	Email    string `validate:"omitempty,email,max=254"`
	Address  string `validate:"omitempty,max=256"`
}

// UserView is the outward-facing projection of a user.
type UserView struct {
	ID             string    `json:"id,omitempty"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	ProfilePicture string    `json:"profile_picture"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}

// View returns the outward projection of u.
func (u *User) View() UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
		Rating:         u.Rating,
		CreatedAt:      u.CreatedAt,
	}
}

// AttemptedView renders the submitted values of a rejected update.
func (p ProfileUpdate) AttemptedView() UserView {
	var v UserView
	if p.Username != nil {
		v.Username = *p.Username
	}
	if p.Email != nil {
		v.Email = *p.Email
	}
	if p.Address != nil {
		v.Address = *p.Address
	}
	if p.ProfilePicture != nil {
		v.ProfilePicture = *p.ProfilePicture
	}
	return v
}
