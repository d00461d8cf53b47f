// File: internal/handler/posts/create_post.go
package posts

import (
	"net/http"

	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/model"

	"github.com/labstack/echo/v4"
)

// CreatePostRequest 定義建立貼文的請求格式
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// 標題
	// required: true
	Title string `json:"title" form:"title" validate:"required" example:"Hello World"`

	// 內文
	// required: true
	Content string `json:"content" form:"content" validate:"required" example:"first post"`

	// 是否發佈，省略時預設為 true
	Published *bool `json:"published" form:"published" example:"true"`
}

// CreatePostHandler 建立新貼文
// @Summary     Create a post
// @Description 以當前使用者為擁有者建立貼文，回傳含伺服器指派欄位的結果
// @Tags        posts
// @Accept      json
// @Produce     json
// @Param       post body CreatePostRequest true "貼文內容"
// @Success     201 {object} dto.PostResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     422 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /posts [post]
func CreatePostHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		var req CreatePostRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, dto.HTTPError{Message: err.Error()})
		}

		published := true
		if req.Published != nil {
			published = *req.Published
		}

		post := &model.Post{
			Title:     req.Title,
			Content:   req.Content,
			Published: published,
			UserID:    claims.UserID,
		}

		ctx := c.Request().Context()
		created, err := createPost(ctx, db, post)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		owner, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, dto.NewPostResponse(created, owner))
	}
}
