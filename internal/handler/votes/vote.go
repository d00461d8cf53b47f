// File: internal/handler/votes/vote.go
package votes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"postboard/internal/cache"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/middleware"
	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/internal/store"
	"postboard/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

const (
	postCacheTTL   = 30 * time.Second
	refreshTimeout = 5 * time.Second
)

var (
	getPostByID   = store.GetPostByID
	getVote       = store.GetVote
	createVote    = store.CreateVote
	deleteVote    = store.DeleteVote
	getPostDetail = store.GetPostDetail
)

// VoteRequest 定義投票的請求格式
// dir = 1 表示投票，dir = 0 表示收回投票
// swagger:model VoteRequest
type VoteRequest struct {
	// 貼文 ID
	// required: true
	PostID int `json:"post_id" form:"post_id" validate:"required" example:"1"`

	// 投票方向
	// required: true
	Dir *int `json:"dir" form:"dir" validate:"required,oneof=0 1" example:"1"`
}

// VoteResponse 投票結果訊息
// swagger:model VoteResponse
type VoteResponse struct {
	Message string `json:"message" example:"successfully added vote"`
}

// VoteHandler 對貼文投票或收回投票
// @Summary     Cast or withdraw a vote
// @Description dir=1 新增投票（同一貼文重複投票回 409），dir=0 收回投票（不存在回 404）
// @Tags        votes
// @Accept      json
// @Produce     json
// @Param       vote body VoteRequest true "投票內容"
// @Success     200 {object} VoteResponse
// @Success     201 {object} VoteResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     409 {object} dto.HTTPError
// @Failure     422 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /vote [post]
func VoteHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		var req VoteRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, dto.HTTPError{Message: err.Error()})
		}

		ctx := c.Request().Context()

		// 檢查與寫入包在同一交易內，避免重複投票的競態
		tx, err := db.Begin(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		defer tx.Rollback(ctx)

		if _, err := getPostByID(ctx, tx, req.PostID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, dto.HTTPError{Message: fmt.Sprintf("post with id %d does not exist", req.PostID)})
			}
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		_, err = getVote(ctx, tx, claims.UserID, req.PostID)
		voted := err == nil
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		var status int
		var resp VoteResponse
		if *req.Dir == model.VoteUp {
			if voted {
				return c.JSON(http.StatusConflict, dto.HTTPError{Message: fmt.Sprintf("user %d has already voted on post %d", claims.UserID, req.PostID)})
			}
			vote := &model.Vote{UserID: claims.UserID, PostID: req.PostID, Dir: *req.Dir}
			if err := createVote(ctx, tx, vote); err != nil {
				return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
			}
			status, resp = http.StatusCreated, VoteResponse{Message: "successfully added vote"}
		} else {
			if !voted {
				return c.JSON(http.StatusNotFound, dto.HTTPError{Message: "Vote does not exist"})
			}
			if err := deleteVote(ctx, tx, claims.UserID, req.PostID); err != nil {
				return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
			}
			status, resp = http.StatusOK, VoteResponse{Message: "successfully deleted vote"}
		}

		if err := tx.Commit(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		// 先同步失效，再交由 worker 於背景重建快取
		postID := req.PostID
		rdb.Del(ctx, postCacheKey(postID))
		wp.Submit(func() { refreshPostCache(db, rdb, postID) })

		return c.JSON(status, resp)
	}
}

func postCacheKey(id int) string {
	return fmt.Sprintf("post:%d", id)
}

// refreshPostCache 在背景重新聚合貼文並回填快取
// 與請求的生命週期無關，使用獨立的逾時 context
func refreshPostCache(db database.DB, rdb cache.Cache, postID int) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	detail, err := getPostDetail(ctx, db, postID)
	if err != nil {
		return
	}
	buf, err := json.Marshal(dto.NewPostOut(detail))
	if err != nil {
		return
	}
	rdb.Set(ctx, postCacheKey(postID), buf, postCacheTTL)
}
