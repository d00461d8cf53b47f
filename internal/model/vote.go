// File: internal/model/vote.go
package model

// Dir 的合法值：1 表示 upvote，0 表示 downvote
const (
	VoteUp   = 1
	VoteDown = 0
)

type Vote struct {
	UserID int `db:"user_id" json:"user_id"`
	PostID int `db:"post_id" json:"post_id"`
	Dir    int `db:"dir" json:"dir"`
}
