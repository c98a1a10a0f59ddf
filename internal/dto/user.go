package dto

import (
	"time"

	"github.com/teamhub/teamhub-api/internal/models"
)

// UserDTO represents a user in API responses. The field set is an explicit
// allowlist; credentials never appear here.
type UserDTO struct {
	ID        uint64            `json:"id"`
	Email     string            `json:"email"`
	Username  string            `json:"username"`
	Name      string            `json:"name"`
	Role      models.MemberRole `json:"role"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
