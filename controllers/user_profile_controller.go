package controllers

import (
	"encoding/json"
	"net/http"

	"campuslink_server/models"
	"campuslink_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for student profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// AddUserProfile handles creating a profile
func (upc *UserProfileController) AddUserProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	created, err := upc.UserProfileService.AddUserProfile(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetUserProfile handles fetching a profile by userId, or by emailId when
// the emailId query parameter is present.
func (upc *UserProfileController) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	if emailID := r.URL.Query().Get("emailId"); emailID != "" {
		profile, err := upc.UserProfileService.GetUserProfileByEmail(r.Context(), emailID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
		return
	}

	userID := mux.Vars(r)["userId"]
	profile, err := upc.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateUserProfile handles partial profile updates
func (upc *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	updated, err := upc.UserProfileService.UpdateUserProfile(r.Context(), userID, updates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteUserProfile handles deleting a profile
func (upc *UserProfileController) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := upc.UserProfileService.DeleteUserProfile(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted successfully", "userId": userID})
}
