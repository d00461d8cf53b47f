package posts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"postboard/internal/cache"
	"postboard/internal/database"
	"postboard/internal/middleware"
	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

func restore() {
	listPosts = store.ListPosts
	getPostDetail = store.GetPostDetail
	getPostByID = store.GetPostByID
	createPost = store.CreatePost
	updatePost = store.UpdatePost
	deletePost = store.DeletePost
	getUserByID = store.GetUserByID
	assertOwner = service.AssertOwner
}

func newGetCtx(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newIDCtx(e *echo.Echo, method, val, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/posts/"+val, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/posts/:id")
	c.SetParamNames("id")
	c.SetParamValues(val)
	return c, rec
}

func withClaims(c echo.Context, userID int) echo.Context {
	c.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: userID})
	return c
}

func sampleDetail(id, votes int) model.PostDetail {
	return model.PostDetail{
		Post: model.Post{
			ID:        id,
			Title:     "hello",
			Content:   "world",
			Published: true,
			CreatedAt: time.Unix(0, 0).UTC(),
			UserID:    7,
		},
		Owner: model.User{ID: 7, Email: "a@b.com", CreatedAt: time.Unix(0, 0).UTC()},
		Votes: votes,
	}
}

func TestListPostsHandler(t *testing.T) {
	e := echo.New()

	t.Run("invalid limit", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newGetCtx(e, "/posts?limit=abc")
		require.NoError(t, ListPostsHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid limit")
	})

	t.Run("negative skip", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newGetCtx(e, "/posts?skip=-1")
		require.NoError(t, ListPostsHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid skip")
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listPosts = func(_ context.Context, _ database.Querier, _, _ int, _ string) ([]model.PostDetail, error) {
			return nil, errors.New("boom")
		}
		ctx, rec := newGetCtx(e, "/posts")
		require.NoError(t, ListPostsHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Cleanup(restore)
		listPosts = func(_ context.Context, _ database.Querier, limit, skip int, search string) ([]model.PostDetail, error) {
			require.Equal(t, defaultLimit, limit)
			require.Equal(t, defaultSkip, skip)
			require.Empty(t, search)
			return []model.PostDetail{}, nil
		}
		ctx, rec := newGetCtx(e, "/posts")
		require.NoError(t, ListPostsHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		listPosts = func(_ context.Context, _ database.Querier, limit, skip int, search string) ([]model.PostDetail, error) {
			require.Equal(t, 2, limit)
			require.Equal(t, 4, skip)
			require.Equal(t, "hel", search)
			return []model.PostDetail{sampleDetail(1, 3), sampleDetail(2, 0)}, nil
		}
		ctx, rec := newGetCtx(e, "/posts?limit=2&skip=4&search=hel")
		require.NoError(t, ListPostsHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"votes":3`)
		require.Contains(t, rec.Body.String(), `"votes":0`)
		require.Contains(t, rec.Body.String(), `"title":"hello"`)
	})
}

func TestGetPostHandler(t *testing.T) {
	e := echo.New()

	missCache := func() *cache.FakeCache {
		return &cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("", redis.Nil)
			},
			SetFn: func(_ context.Context, _ string, _ any, _ time.Duration) *redis.StatusCmd {
				return redis.NewStatusResult("OK", nil)
			},
		}
	}

	t.Run("bad id", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newIDCtx(e, http.MethodGet, "abc", "")
		require.NoError(t, GetPostHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cache hit skips database", func(t *testing.T) {
		t.Cleanup(restore)
		getPostDetail = func(_ context.Context, _ database.Querier, _ int) (*model.PostDetail, error) {
			t.Fatal("unexpected database read on cache hit")
			return nil, nil
		}
		rdb := &cache.FakeCache{
			GetFn: func(_ context.Context, key string) *redis.StringCmd {
				require.Equal(t, "post:1", key)
				return redis.NewStringResult(`{"Post":{"id":1,"title":"hello"},"votes":9}`, nil)
			},
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "1", "")
		require.NoError(t, GetPostHandler(&database.FakeDB{}, rdb)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"votes":9`)
	})

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		getPostDetail = func(_ context.Context, _ database.Querier, id int) (*model.PostDetail, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "9", "")
		require.NoError(t, GetPostHandler(&database.FakeDB{}, missCache())(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "post with id 9 was not found")
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		getPostDetail = func(_ context.Context, _ database.Querier, _ int) (*model.PostDetail, error) {
			return nil, errors.New("boom")
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "1", "")
		require.NoError(t, GetPostHandler(&database.FakeDB{}, missCache())(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("miss populates cache", func(t *testing.T) {
		t.Cleanup(restore)
		detail := sampleDetail(1, 5)
		getPostDetail = func(_ context.Context, _ database.Querier, id int) (*model.PostDetail, error) {
			require.Equal(t, 1, id)
			return &detail, nil
		}
		var setKey string
		var setTTL time.Duration
		rdb := &cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("", redis.Nil)
			},
			SetFn: func(_ context.Context, key string, _ any, ttl time.Duration) *redis.StatusCmd {
				setKey, setTTL = key, ttl
				return redis.NewStatusResult("OK", nil)
			},
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "1", "")
		require.NoError(t, GetPostHandler(&database.FakeDB{}, rdb)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "post:1", setKey)
		require.Equal(t, postCacheTTL, setTTL)
		require.Contains(t, rec.Body.String(), `"votes":5`)
	})
}

func TestCreatePostHandler(t *testing.T) {
	e := echo.New()

	newCreateCtx := func(body string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	t.Run("missing claims", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newCreateCtx(`{"title":"t","content":"c"}`)
		require.NoError(t, CreatePostHandler(nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newCreateCtx("{")
		require.NoError(t, CreatePostHandler(nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newCreateCtx(`{"title":"t","content":"c"}`)
		require.NoError(t, CreatePostHandler(nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createPost = func(_ context.Context, _ database.Querier, _ *model.Post) (*model.Post, error) {
			return nil, errors.New("boom")
		}
		ctx, rec := newCreateCtx(`{"title":"t","content":"c"}`)
		require.NoError(t, CreatePostHandler(&database.FakeDB{})(withClaims(ctx, 7)))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success defaults published", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createPost = func(_ context.Context, _ database.Querier, p *model.Post) (*model.Post, error) {
			require.Equal(t, "t", p.Title)
			require.Equal(t, "c", p.Content)
			require.True(t, p.Published)
			require.Equal(t, 7, p.UserID)
			p.ID = 1
			p.CreatedAt = time.Unix(0, 0).UTC()
			return p, nil
		}
		getUserByID = func(_ context.Context, _ database.Querier, id int) (*model.User, error) {
			require.Equal(t, 7, id)
			return &model.User{ID: 7, Email: "a@b.com"}, nil
		}
		ctx, rec := newCreateCtx(`{"title":"t","content":"c"}`)
		require.NoError(t, CreatePostHandler(&database.FakeDB{})(withClaims(ctx, 7)))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"published":true`)
		require.Contains(t, rec.Body.String(), `"email":"a@b.com"`)
	})

	t.Run("published false preserved", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createPost = func(_ context.Context, _ database.Querier, p *model.Post) (*model.Post, error) {
			require.False(t, p.Published)
			return p, nil
		}
		getUserByID = func(_ context.Context, _ database.Querier, _ int) (*model.User, error) {
			return &model.User{ID: 7}, nil
		}
		ctx, rec := newCreateCtx(`{"title":"t","content":"c","published":false}`)
		require.NoError(t, CreatePostHandler(&database.FakeDB{})(withClaims(ctx, 7)))
		require.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestUpdatePostHandler(t *testing.T) {
	e := echo.New()

	t.Run("missing claims", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newIDCtx(e, http.MethodPut, "1", `{"title":"t","content":"c"}`)
		require.NoError(t, UpdatePostHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newIDCtx(e, http.MethodPut, "abc", `{"title":"t","content":"c"}`)
		require.NoError(t, UpdatePostHandler(nil, nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("begin error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		db := &database.FakeDB{BeginFn: func(_ context.Context) (database.Tx, error) {
			return nil, errors.New("begin")
		}}
		ctx, rec := newIDCtx(e, http.MethodPut, "1", `{"title":"t","content":"c"}`)
		require.NoError(t, UpdatePostHandler(db, nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("not found rolls back", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		rolledBack := false
		tx := &database.FakeTx{RollbackFn: func(_ context.Context) error {
			rolledBack = true
			return nil
		}}
		db := &database.FakeDB{BeginFn: func(_ context.Context) (database.Tx, error) { return tx, nil }}
		getPostByID = func(_ context.Context, _ database.Querier, _ int) (*model.Post, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newIDCtx(e, http.MethodPut, "9", `{"title":"t","content":"c"}`)
		require.NoError(t, UpdatePostHandler(db, nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.True(t, rolledBack)
	})

	t.Run("not owner", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		tx := &database.FakeTx{}
		db := &database.FakeDB{BeginFn: func(_ context.Context) (database.Tx, error) { return tx, nil }}
		getPostByID = func(_ context.Context, _ database.Querier, _ int) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: 99}, nil
		}
		ctx, rec := newIDCtx(e, http.MethodPut, "1", `{"title":"t","content":"c"}`)
		require.NoError(t, UpdatePostHandler(db, nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "Not authorized to perform requested action")
	})

	t.Run("success invalidates cache", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		committed := false
		tx := &database.FakeTx{CommitFn: func(_ context.Context) error {
			committed = true
			return nil
		}}
		db := &database.FakeDB{BeginFn: func(_ context.Context) (database.Tx, error) { return tx, nil }}
		getPostByID = func(_ context.Context, _ database.Querier, id int) (*model.Post, error) {
			require.Equal(t, 5, id)
			return &model.Post{ID: 5, UserID: 7, CreatedAt: time.Unix(0, 0).UTC()}, nil
		}
		updatePost = func(_ context.Context, _ database.Querier, p *model.Post) error {
			require.Equal(t, 5, p.ID)
			require.Equal(t, "t", p.Title)
			require.Equal(t, 7, p.UserID)
			return nil
		}
		getUserByID = func(_ context.Context, _ database.Querier, _ int) (*model.User, error) {
			return &model.User{ID: 7, Email: "a@b.com"}, nil
		}
		var deleted []string
		rdb := &cache.FakeCache{DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			deleted = append(deleted, keys...)
			return redis.NewIntResult(1, nil)
		}}
		ctx, rec := newIDCtx(e, http.MethodPut, "5", `{"title":"t","content":"c"}`)
		require.NoError(t, UpdatePostHandler(db, rdb)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, committed)
		require.Equal(t, []string{"post:5"}, deleted)
		require.Contains(t, rec.Body.String(), `"title":"t"`)
	})
}

func TestDeletePostHandler(t *testing.T) {
	e := echo.New()

	t.Run("missing claims", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newIDCtx(e, http.MethodDelete, "1", "")
		require.NoError(t, DeletePostHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		tx := &database.FakeTx{}
		db := &database.FakeDB{BeginFn: func(_ context.Context) (database.Tx, error) { return tx, nil }}
		getPostByID = func(_ context.Context, _ database.Querier, _ int) (*model.Post, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newIDCtx(e, http.MethodDelete, "9", "")
		require.NoError(t, DeletePostHandler(db, nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not owner", func(t *testing.T) {
		t.Cleanup(restore)
		tx := &database.FakeTx{}
		db := &database.FakeDB{BeginFn: func(_ context.Context) (database.Tx, error) { return tx, nil }}
		getPostByID = func(_ context.Context, _ database.Querier, _ int) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: 99}, nil
		}
		ctx, rec := newIDCtx(e, http.MethodDelete, "1", "")
		require.NoError(t, DeletePostHandler(db, nil)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("success invalidates cache", func(t *testing.T) {
		t.Cleanup(restore)
		committed := false
		tx := &database.FakeTx{CommitFn: func(_ context.Context) error {
			committed = true
			return nil
		}}
		db := &database.FakeDB{BeginFn: func(_ context.Context) (database.Tx, error) { return tx, nil }}
		getPostByID = func(_ context.Context, _ database.Querier, _ int) (*model.Post, error) {
			return &model.Post{ID: 5, UserID: 7}, nil
		}
		deletePost = func(_ context.Context, _ database.Querier, id int) error {
			require.Equal(t, 5, id)
			return nil
		}
		var deleted []string
		rdb := &cache.FakeCache{DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			deleted = append(deleted, keys...)
			return redis.NewIntResult(1, nil)
		}}
		ctx, rec := newIDCtx(e, http.MethodDelete, "5", "")
		require.NoError(t, DeletePostHandler(db, rdb)(withClaims(ctx, 7)))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, committed)
		require.Equal(t, []string{"post:5"}, deleted)
		require.Empty(t, rec.Body.String())
	})
}
