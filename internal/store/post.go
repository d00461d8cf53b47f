package store

import (
	"context"
	"fmt"

	"postboard/internal/database"
	"postboard/internal/model"
)

// postDetailColumns 固定列表與單篇查詢的欄位順序，供 scanPostDetail 對應
const postDetailColumns = `p.id, p.title, p.content, p.published, p.created_at, p.user_id,
	        u.email, u.created_at, count(v.post_id)`

func scanPostDetail(row interface{ Scan(dest ...any) error }, d *model.PostDetail) error {
	if err := row.Scan(
		&d.Post.ID,
		&d.Post.Title,
		&d.Post.Content,
		&d.Post.Published,
		&d.Post.CreatedAt,
		&d.Post.UserID,
		&d.Owner.Email,
		&d.Owner.CreatedAt,
		&d.Votes,
	); err != nil {
		return err
	}
	d.Owner.ID = d.Post.UserID
	return nil
}

// ListPosts 以外連接聚合每篇貼文的投票數，依標題做不分大小寫子字串過濾後分頁
// 沒有投票的貼文仍會出現，票數為 0；不指定 ORDER BY，順序依儲存引擎而定
func ListPosts(ctx context.Context, db database.Querier, limit, skip int, search string) ([]model.PostDetail, error) {
	rows, err := db.Query(ctx,
		`SELECT `+postDetailColumns+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 LEFT JOIN votes v ON v.post_id = p.id
		 WHERE p.title ILIKE '%' || $1 || '%'
		 GROUP BY p.id, u.id
		 LIMIT $2 OFFSET $3`,
		search,
		limit,
		skip,
	)
	if err != nil {
		return nil, fmt.Errorf("ListPosts: %w", err)
	}
	defer rows.Close()

	details := []model.PostDetail{}
	for rows.Next() {
		var d model.PostDetail
		if err := scanPostDetail(rows, &d); err != nil {
			return nil, fmt.Errorf("ListPosts: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPosts: %w", err)
	}
	return details, nil
}

// GetPostDetail 取得單篇貼文與投票數，同一套聚合邏輯改以 id 過濾
func GetPostDetail(ctx context.Context, db database.Querier, postID int) (*model.PostDetail, error) {
	row := db.QueryRow(ctx,
		`SELECT `+postDetailColumns+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 LEFT JOIN votes v ON v.post_id = p.id
		 WHERE p.id = $1
		 GROUP BY p.id, u.id`,
		postID,
	)
	d := &model.PostDetail{}
	if err := scanPostDetail(row, d); err != nil {
		return nil, fmt.Errorf("GetPostDetail: %w", err)
	}
	return d, nil
}

func GetPostByID(ctx context.Context, db database.Querier, postID int) (*model.Post, error) {
	row := db.QueryRow(ctx,
		`SELECT id, title, content, published, created_at, user_id
		 FROM posts WHERE id = $1`,
		postID,
	)
	p := &model.Post{}
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Published,
		&p.CreatedAt,
		&p.UserID,
	); err != nil {
		return nil, fmt.Errorf("GetPostByID: %w", err)
	}
	return p, nil
}

func CreatePost(ctx context.Context, db database.Querier, p *model.Post) (*model.Post, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO posts (title, content, published, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.Title,
		p.Content,
		p.Published,
		p.UserID,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreatePost: %w", err)
	}
	return p, nil
}

func UpdatePost(ctx context.Context, db database.Querier, p *model.Post) error {
	_, err := db.Exec(ctx,
		`UPDATE posts SET title = $1, content = $2, published = $3
		 WHERE id = $4`,
		p.Title,
		p.Content,
		p.Published,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdatePost: %w", err)
	}
	return nil
}

func DeletePost(ctx context.Context, db database.Querier, postID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM posts WHERE id = $1`,
		postID,
	)
	if err != nil {
		return fmt.Errorf("DeletePost: %w", err)
	}
	return nil
}
