// File: internal/handler/posts/update_post.go
package posts

import (
	"errors"
	"net/http"
	"strconv"

	"postboard/internal/cache"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// UpdatePostRequest 定義更新貼文的請求格式，整筆覆寫
// swagger:model UpdatePostRequest
type UpdatePostRequest struct {
	// 標題
	// required: true
	Title string `json:"title" form:"title" validate:"required" example:"Hello World"`

	// 內文
	// required: true
	Content string `json:"content" form:"content" validate:"required" example:"updated post"`

	// 是否發佈，省略時預設為 true
	Published *bool `json:"published" form:"published" example:"true"`
}

// UpdatePostHandler 更新指定貼文
// @Summary     Update a post by ID
// @Description 僅擁有者可更新；讀取、擁有權檢查與寫入在同一交易內完成
// @Tags        posts
// @Accept      json
// @Produce     json
// @Param       id   path int               true "貼文 ID"
// @Param       post body UpdatePostRequest true "貼文內容"
// @Success     200 {object} dto.PostResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     422 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /posts/{id} [put]
func UpdatePostHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid post ID"})
		}

		var req UpdatePostRequest
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

		ctx := c.Request().Context()

		// 讀取-檢查-寫入包在同一交易內，避免檢查與寫入之間的競態
		tx, err := db.Begin(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		defer tx.Rollback(ctx)

		post, err := getPostByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return postNotFound(c, id)
			}
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		if err := assertOwner(post.UserID, claims.UserID); err != nil {
			return notOwner(c)
		}

		updated := &model.Post{
			ID:        id,
			Title:     req.Title,
			Content:   req.Content,
			Published: published,
			CreatedAt: post.CreatedAt,
			UserID:    post.UserID,
		}
		if err := updatePost(ctx, tx, updated); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		owner, err := getUserByID(ctx, tx, post.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		if err := tx.Commit(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		// 交易提交後使快取失效
		rdb.Del(ctx, postCacheKey(id))

		return c.JSON(http.StatusOK, dto.NewPostResponse(updated, owner))
	}
}
