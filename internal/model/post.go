// File: internal/model/post.go
package model

import "time"

type Post struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Published bool      `db:"published" json:"published"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UserID    int       `db:"user_id" json:"user_id"`
}

// PostDetail 是列表與單篇查詢的唯讀投影：貼文、擁有者與投票總數
// 不落地，每次查詢即時聚合
type PostDetail struct {
	Post  Post
	Owner User
	Votes int
}
