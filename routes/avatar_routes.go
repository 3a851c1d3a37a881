package routes

import (
	"campuslink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterAvatarRoutes sets up routes for avatar upload/read URLs
func RegisterAvatarRoutes(r *mux.Router) {
	r.HandleFunc("/generate-upload-url", controllers.GenerateAvatarUploadURL).Methods("POST")
	r.HandleFunc("/get-read-url", controllers.GetAvatarReadURL).Methods("POST")
}
