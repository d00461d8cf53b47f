// File: internal/dto/post_response.go
package dto

import (
	"time"

	"postboard/internal/model"
)

// swagger:model dto.PostResponse
type PostResponse struct {
	ID        int          `json:"id" example:"1"`
	Title     string       `json:"title" example:"Hello World"`
	Content   string       `json:"content"`
	Published bool         `json:"published" example:"true"`
	CreatedAt time.Time    `json:"created_at" example:"2025-05-01T15:04:05Z07:00"`
	User      UserResponse `json:"user"`
}

// PostOut 為貼文加上投票總數的讀取投影
// swagger:model dto.PostOut
type PostOut struct {
	Post  PostResponse `json:"Post"`
	Votes int          `json:"votes" example:"0"`
}

// NewPostResponse 由貼文與擁有者組裝響應
func NewPostResponse(p *model.Post, owner *model.User) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		User:      NewUserResponse(owner),
	}
}

// NewPostOut 由查詢投影組裝響應
func NewPostOut(d *model.PostDetail) PostOut {
	return PostOut{
		Post:  NewPostResponse(&d.Post, &d.Owner),
		Votes: d.Votes,
	}
}
