package controllers

import (
	"encoding/json"
	"net/http"

	"campuslink_server/groupstore"
	"campuslink_server/middleware"
	"campuslink_server/models"

	"github.com/gorilla/mux"
)

// GroupController exposes the study-group snapshot store over HTTP.
type GroupController struct {
	Store *groupstore.Store
}

// NewGroupController creates a new GroupController instance
func NewGroupController(store *groupstore.Store) *GroupController {
	return &GroupController{Store: store}
}

// ListGroups returns the current group list
func (gc *GroupController) ListGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": gc.Store.Groups()})
}

// CreateGroup creates a study group with the caller as sole member
func (gc *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Subject  string `json:"subject"`
		Schedule string `json:"schedule"`
		Creator  string `json:"creatorName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	creator := models.GroupMember{
		MemberID: middleware.UserID(r),
		Name:     payload.Creator,
	}
	group, err := gc.Store.CreateGroup(payload.Name, payload.Subject, payload.Schedule, creator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// GetMessages returns a group's message sequence
func (gc *GroupController) GetMessages(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	if _, ok := gc.Store.Group(groupID); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groupId":  groupID,
		"messages": gc.Store.Messages(groupID),
		"members":  gc.Store.Members(groupID),
	})
}

// SendMessage appends a message to a group
func (gc *GroupController) SendMessage(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	if _, ok := gc.Store.Group(groupID); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	gc.Store.SendMessage(groupID, middleware.UserID(r), payload.Content)
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Message queued"})
}

// AddMember joins the caller into a group
func (gc *GroupController) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	member := models.GroupMember{
		MemberID: middleware.UserID(r),
		Name:     payload.Name,
	}
	if err := gc.Store.AddMember(groupID, member); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": gc.Store.Members(groupID)})
}
