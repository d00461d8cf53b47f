// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"postboard/internal/cache"
	"postboard/internal/database"
	"postboard/internal/handler"
	"postboard/internal/handler/auth"
	"postboard/internal/handler/posts"
	"postboard/internal/handler/users"
	"postboard/internal/handler/votes"
	"postboard/internal/middleware"
	"postboard/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, wp worker.Pool) {
	// 健康檢查（需登入）
	e.GET("/ping", handler.PingHandler(db, rdb), middleware.RequireAuth)

	// 使用者登入與註冊
	e.POST("/login", auth.LoginHandler(db))
	e.POST("/users", users.CreateUserHandler(db))
	e.GET("/users/:id", users.GetUserHandler(db))

	// 貼文讀取公開，變更需登入且僅限擁有者
	e.GET("/posts", posts.ListPostsHandler(db))
	e.POST("/posts", posts.CreatePostHandler(db), middleware.RequireAuth)
	e.GET("/posts/:id", posts.GetPostHandler(db, rdb))
	e.PUT("/posts/:id", posts.UpdatePostHandler(db, rdb), middleware.RequireAuth)
	e.DELETE("/posts/:id", posts.DeletePostHandler(db, rdb), middleware.RequireAuth)

	// 投票
	e.POST("/vote", votes.VoteHandler(db, rdb, wp), middleware.RequireAuth)
}
