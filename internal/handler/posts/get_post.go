// File: internal/handler/posts/get_post.go
package posts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"postboard/internal/cache"
	"postboard/internal/database"
	"postboard/internal/dto"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// GetPostHandler 取得單篇貼文與投票數
// @Summary     Get a post by ID
// @Description 回傳指定貼文與其投票總數，結果以短 TTL 快取
// @Tags        posts
// @Produce     json
// @Param       id path int true "貼文 ID"
// @Success     200 {object} dto.PostOut
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /posts/{id} [get]
func GetPostHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid post ID"})
		}

		ctx := c.Request().Context()

		// 快取命中直接回傳，未命中或解碼失敗則回源查詢
		if raw, err := rdb.Get(ctx, postCacheKey(id)).Result(); err == nil {
			var cached dto.PostOut
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return c.JSON(http.StatusOK, cached)
			}
		}

		detail, err := getPostDetail(ctx, db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return postNotFound(c, id)
			}
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		resp := dto.NewPostOut(detail)
		if buf, err := json.Marshal(resp); err == nil {
			// 快取寫入失敗不影響回應
			rdb.Set(ctx, postCacheKey(id), buf, postCacheTTL)
		}
		return c.JSON(http.StatusOK, resp)
	}
}
