package dto

import "github.com/nastly29/home-organizer/internal/models"

type EnsureProfileRequest struct {
	DisplayName string `json:"displayName"`
}

type UserResponse struct {
	User *models.User `json:"user"`
}
