// File: internal/handler/posts/posts.go
package posts

import (
	"fmt"
	"net/http"
	"time"

	"postboard/internal/dto"
	"postboard/internal/middleware"
	"postboard/internal/service"
	"postboard/internal/store"

	"github.com/labstack/echo/v4"
)

// 預設分頁參數
const (
	defaultLimit = 10
	defaultSkip  = 0
)

// postCacheTTL 單篇貼文快取的過期時間
const postCacheTTL = 30 * time.Second

var (
	listPosts     = store.ListPosts
	getPostDetail = store.GetPostDetail
	getPostByID   = store.GetPostByID
	createPost    = store.CreatePost
	updatePost    = store.UpdatePost
	deletePost    = store.DeletePost
	getUserByID   = store.GetUserByID
	assertOwner   = service.AssertOwner
)

func postCacheKey(id int) string {
	return fmt.Sprintf("post:%d", id)
}

func postNotFound(c echo.Context, id int) error {
	return c.JSON(http.StatusNotFound, dto.HTTPError{Message: fmt.Sprintf("post with id %d was not found", id)})
}

func notOwner(c echo.Context) error {
	return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "Not authorized to perform requested action"})
}

// claimsFromContext 取出 RequireAuth 放入的 JWT claims
func claimsFromContext(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok
}
