package handler

import (
	"errors"
	"net/http"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
)

const (
	profileUpdated      = "Profile updated successfully!"
	profileUpdateFailed = "Failed to update profile."
	// room for multipart boundaries and headers around the file part
	multipartOverhead = 64 << 10
)

type dashboardPage struct {
	User models.UserView `json:"user"`
}

type settingsPage struct {
	User    models.UserView `json:"user"`
	Success *string         `json:"success"`
	Error   *string         `json:"error"`
}

// Dashboard shows the logged-in user's profile
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), userID(r))
	if err != nil {
		h.log.Errorf("Failed to load dashboard: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	h.writeJSON(w, http.StatusOK, dashboardPage{User: user.View()})
}

// UploadProfilePicture replaces the user's profile picture
func (h *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var upload *models.Upload
	file, header, err := r.FormFile("profilePic")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	default:
		defer file.Close()
		upload = &models.Upload{Filename: header.Filename, Size: header.Size, Content: file}
	}

	if _, err := h.svc.UploadProfilePicture(r.Context(), userID(r), upload); err != nil {
		if errors.Is(err, common.ErrValidation) {
			h.writeError(w, http.StatusBadRequest, "Invalid upload")
			return
		}
		h.log.Errorf("Profile picture upload failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Settings shows the profile settings form
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), userID(r))
	if err != nil {
		h.log.Errorf("Failed to load settings: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	h.writeJSON(w, http.StatusOK, settingsPage{User: user.View()})
}

// UpdateSettings applies the submitted profile fields
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := parseSettingsForm(r); err != nil {
		msg := profileUpdateFailed
		h.writeJSON(w, http.StatusBadRequest, settingsPage{Error: &msg})
		return
	}

	in := models.ProfileUpdate{
		Username:       postField(r, "username"),
		Email:          postField(r, "email"),
		Address:        postField(r, "address"),
		Password:       postField(r, "password"),
		ProfilePicture: postField(r, "profilePic"),
	}

	user, err := h.svc.UpdateProfile(r.Context(), userID(r), in)
	if err != nil {
		msg := profileUpdateFailed
		h.writeJSON(w, settingsStatus(err), settingsPage{User: in.AttemptedView(), Error: &msg})
		return
	}

	msg := profileUpdated
	h.writeJSON(w, http.StatusOK, settingsPage{User: user.View(), Success: &msg})
}

// parseSettingsForm accepts both urlencoded and multipart submissions.
func parseSettingsForm(r *http.Request) error {
	err := r.ParseMultipartForm(1 << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	if err != nil {
		return err
	}
	return r.MultipartForm.RemoveAll()
}

func settingsStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
