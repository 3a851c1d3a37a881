package routes

import (
	"campuslink_server/controllers"
	"campuslink_server/groupstore"

	"github.com/gorilla/mux"
)

// RegisterGroupRoutes sets up routes for study groups under /api/groups
func RegisterGroupRoutes(r *mux.Router, store *groupstore.Store, auth mux.MiddlewareFunc) {
	controller := controllers.NewGroupController(store)

	groupRouter := r.PathPrefix("/api/groups").Subrouter()
	groupRouter.Use(auth)

	groupRouter.HandleFunc("", controller.ListGroups).Methods("GET")
	groupRouter.HandleFunc("", controller.CreateGroup).Methods("POST")
	groupRouter.HandleFunc("/{groupId}/messages", controller.GetMessages).Methods("GET")
	groupRouter.HandleFunc("/{groupId}/messages", controller.SendMessage).Methods("POST")
	groupRouter.HandleFunc("/{groupId}/members", controller.AddMember).Methods("POST")
}
