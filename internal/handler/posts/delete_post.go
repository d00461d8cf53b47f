// File: internal/handler/posts/delete_post.go
package posts

import (
	"errors"
	"net/http"
	"strconv"

	"postboard/internal/cache"
	"postboard/internal/database"
	"postboard/internal/dto"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// DeletePostHandler 刪除指定貼文
// @Summary     Delete a post by ID
// @Description 僅擁有者可刪除，關聯的投票由資料庫 CASCADE 一併移除
// @Tags        posts
// @Produce     json
// @Param       id path int true "貼文 ID"
// @Success     204 "No Content"
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /posts/{id} [delete]
func DeletePostHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
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

		if err := deletePost(ctx, tx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		if err := tx.Commit(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		// 交易提交後使快取失效
		rdb.Del(ctx, postCacheKey(id))

		return c.NoContent(http.StatusNoContent)
	}
}
