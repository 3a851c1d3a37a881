package controllers

import (
	"encoding/json"
	"net/http"

	"campuslink_server/middleware"
	"campuslink_server/models"
	"campuslink_server/services"

	"github.com/gorilla/mux"
)

// BuddyController handles HTTP requests for gym-buddy matching
type BuddyController struct {
	BuddyService *services.BuddyService
}

// NewBuddyController creates a new BuddyController instance
func NewBuddyController(buddyService *services.BuddyService) *BuddyController {
	return &BuddyController{BuddyService: buddyService}
}

// SubmitRequest handles a new match request. Clients that receive a
// searching response poll GET /request/{requestId} every few seconds.
func (bc *BuddyController) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Criteria string `json:"criteria"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	result, err := bc.BuddyService.SubmitRequest(r.Context(), middleware.UserID(r), payload.Criteria)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == models.BuddyStatusSearching {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// PollStatus handles polling a previously submitted request
func (bc *BuddyController) PollStatus(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	result, err := bc.BuddyService.PollStatus(r.Context(), middleware.UserID(r), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
