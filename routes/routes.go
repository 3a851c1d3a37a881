package routes

import (
	"campuslink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up the unauthenticated routes for the application
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
}
