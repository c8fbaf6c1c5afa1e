package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"last_name"`
	Image    *string `json:"image"`
	Password *string `json:"password"`
}

type UpdateEmailRequest struct {
	Email string `json:"email"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type UpdateStatusRequest struct {
	Status bool `json:"status"`
}

// UserResponse is the public view of a user; it never carries the hash.
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Image           *string   `json:"image"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"is_active"`
	IsBanned        bool      `json:"is_banned"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		LastName:        u.LastName,
		Email:           u.Email,
		Image:           u.Image,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsBanned:        u.IsBanned,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}
