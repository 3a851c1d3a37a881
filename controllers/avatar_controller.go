package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"campuslink_server/services"
)

// GenerateAvatarUploadURL generates a presigned URL for avatar uploads
func GenerateAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required fields"})
		return
	}

	url, key, err := services.GenerateAvatarUploadURL(payload.FileName, payload.FileType)
	if err != nil {
		log.Printf("Error generating pre-signed upload URL: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate pre-signed URL"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// GetAvatarReadURL generates a presigned URL for reading an avatar
func GetAvatarReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	url, err := services.GenerateAvatarReadURL(payload.Key)
	if err != nil {
		log.Printf("Error generating pre-signed read URL: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate pre-signed URL"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
