package controllers_test

import (
	"net/http"
	"testing"

	"campuslink_server/groupstore"
	"campuslink_server/middleware"
	"campuslink_server/routes"
	"campuslink_server/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupRouter(t *testing.T) (*mux.Router, *groupstore.Store) {
	t.Helper()
	store := groupstore.New(storage.NewMemory(), nil)
	t.Cleanup(store.Close)

	r := mux.NewRouter()
	auth := mux.MiddlewareFunc(middleware.RequireAuth(testSecret))
	routes.RegisterGroupRoutes(r, store, auth)
	return r, store
}

func TestGroupCreateAndList(t *testing.T) {
	r, _ := groupRouter(t)
	bearer := bearerFor(t, "user-1")

	rec, body := doJSON(t, r, http.MethodPost, "/api/groups", bearer, map[string]string{
		"name":        "Algorithms Study",
		"subject":     "CS",
		"schedule":    "Mon 5pm",
		"creatorName": "Maya Patel",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	groupID, _ := body["groupId"].(string)
	require.NotEmpty(t, groupID)
	assert.Equal(t, float64(1), body["memberCount"])

	rec, body = doJSON(t, r, http.MethodGet, "/api/groups", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups, ok := body["groups"].([]interface{})
	require.True(t, ok)
	first, ok := groups[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Algorithms Study", first["name"])
}

func TestGroupCreateValidatesName(t *testing.T) {
	r, _ := groupRouter(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/groups", bearerFor(t, "user-1"), map[string]string{
		"name": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGroupMessagesFlow(t *testing.T) {
	r, store := groupRouter(t)
	bearer := bearerFor(t, "user-1")

	rec, body := doJSON(t, r, http.MethodPost, "/api/groups", bearer, map[string]string{
		"name":        "Physics Lab Prep",
		"creatorName": "Maya Patel",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	groupID, _ := body["groupId"].(string)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/groups/"+groupID+"/messages", bearer,
		map[string]string{"content": "bring last year's papers"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec, body = doJSON(t, r, http.MethodGet, "/api/groups/"+groupID+"/messages", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg, ok := messages[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "bring last year's papers", msg["content"])
	assert.Equal(t, "user-1", msg["senderId"])

	// The in-memory view is immediate even though the debounced flush
	// may not have run yet.
	assert.Len(t, store.Messages(groupID), 1)
}

func TestGroupMessagesUnknownGroup(t *testing.T) {
	r, _ := groupRouter(t)
	bearer := bearerFor(t, "user-1")

	rec, _ := doJSON(t, r, http.MethodGet, "/api/groups/g-nope/messages", bearer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/groups/g-nope/messages", bearer,
		map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroupAddMember(t *testing.T) {
	r, _ := groupRouter(t)

	rec, body := doJSON(t, r, http.MethodPost, "/api/groups", bearerFor(t, "user-1"), map[string]string{
		"name":        "Spanish Conversation",
		"creatorName": "Maya Patel",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	groupID, _ := body["groupId"].(string)

	rec, body = doJSON(t, r, http.MethodPost, "/api/groups/"+groupID+"/members", bearerFor(t, "user-2"),
		map[string]string{"name": "Jordan Lee"})
	require.Equal(t, http.StatusOK, rec.Code)
	members, ok := body["members"].([]interface{})
	require.True(t, ok)
	assert.Len(t, members, 2)
}
