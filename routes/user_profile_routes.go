package routes

import (
	"campuslink_server/controllers"
	"campuslink_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profiles under /api/profile
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, auth mux.MiddlewareFunc) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.Use(auth)

	profileRouter.HandleFunc("", controller.AddUserProfile).Methods("POST")
	profileRouter.HandleFunc("", controller.GetUserProfile).Methods("GET").Queries("emailId", "{emailId}")
	profileRouter.HandleFunc("/{userId}", controller.GetUserProfile).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.UpdateUserProfile).Methods("PATCH")
	profileRouter.HandleFunc("/{userId}", controller.DeleteUserProfile).Methods("DELETE")
}
