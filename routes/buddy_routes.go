package routes

import (
	"campuslink_server/controllers"
	"campuslink_server/services"

	"github.com/gorilla/mux"
)

// RegisterBuddyRoutes sets up routes for buddy matching under /api/buddy
func RegisterBuddyRoutes(r *mux.Router, buddyService *services.BuddyService, auth mux.MiddlewareFunc) {
	controller := controllers.NewBuddyController(buddyService)

	buddyRouter := r.PathPrefix("/api/buddy").Subrouter()
	buddyRouter.Use(auth)

	buddyRouter.HandleFunc("/request", controller.SubmitRequest).Methods("POST")
	buddyRouter.HandleFunc("/request/{requestId}", controller.PollStatus).Methods("GET")
}
