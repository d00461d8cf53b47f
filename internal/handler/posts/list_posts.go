// File: internal/handler/posts/list_posts.go
package posts

import (
	"net/http"
	"strconv"

	"postboard/internal/database"
	"postboard/internal/dto"

	"github.com/labstack/echo/v4"
)

// queryInt 解析非負整數查詢參數，缺值時採用預設值
func queryInt(c echo.Context, name string, def int) (int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// ListPostsHandler 列出貼文與各自的投票數
// @Summary     List posts with vote counts
// @Description 以標題不分大小寫子字串過濾並分頁，沒有投票的貼文票數為 0
// @Tags        posts
// @Produce     json
// @Param       limit  query int    false "每頁筆數 (預設 10)"
// @Param       skip   query int    false "略過筆數 (預設 0)"
// @Param       search query string false "標題搜尋字串"
// @Success     200 {array}  dto.PostOut
// @Failure     400 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /posts [get]
func ListPostsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, ok := queryInt(c, "limit", defaultLimit)
		if !ok {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid limit"})
		}
		skip, ok := queryInt(c, "skip", defaultSkip)
		if !ok {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid skip"})
		}
		search := c.QueryParam("search")

		details, err := listPosts(c.Request().Context(), db, limit, skip, search)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		resp := make([]dto.PostOut, 0, len(details))
		for i := range details {
			resp = append(resp, dto.NewPostOut(&details[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
