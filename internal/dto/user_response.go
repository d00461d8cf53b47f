// File: internal/dto/user_response.go
package dto

import (
	"time"

	"postboard/internal/model"
)

// swagger:model dto.UserResponse
type UserResponse struct {
	ID        int       `json:"id" example:"1"`
	Email     string    `json:"email" example:"alice@example.com"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z07:00"`
}

// NewUserResponse 由使用者模型組裝響應，永不包含密碼哈希
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
