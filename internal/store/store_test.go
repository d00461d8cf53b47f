package store

import (
	"time"

	"postboard/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/* ---------- 假實作 ---------- */

// fakeRow 實作 pgx.Row，依 dest 數量對應不同查詢的掃描行為。
type fakeRow struct {
	scanErr error
	user    *model.User
	post    *model.Post
	vote    *model.Vote
	detail  *model.PostDetail
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	switch len(dest) {
	case 9:
		// GetPostDetail: post 欄位 + owner email/created_at + votes
		scanDetail(dest, r.detail)
	case 6:
		// GetPostByID: id, title, content, published, created_at, user_id
		p := r.post
		*dest[0].(*int) = p.ID
		*dest[1].(*string) = p.Title
		*dest[2].(*string) = p.Content
		*dest[3].(*bool) = p.Published
		*dest[4].(*time.Time) = p.CreatedAt
		*dest[5].(*int) = p.UserID
	case 4:
		// GetUserByID / GetUserByEmail: id, email, password, created_at
		u := r.user
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Email
		*dest[2].(*string) = u.PasswordHash
		*dest[3].(*time.Time) = u.CreatedAt
	case 3:
		// GetVote: user_id, post_id, dir
		v := r.vote
		*dest[0].(*int) = v.UserID
		*dest[1].(*int) = v.PostID
		*dest[2].(*int) = v.Dir
	case 2:
		// CreatePost / CreateUser RETURNING: id, created_at
		*dest[0].(*int) = 7
		*dest[1].(*time.Time) = time.Unix(0, 0).UTC()
	default:
		panic("fakeRow.Scan: unexpected number of dest")
	}
	return nil
}

func scanDetail(dest []any, d *model.PostDetail) {
	*dest[0].(*int) = d.Post.ID
	*dest[1].(*string) = d.Post.Title
	*dest[2].(*string) = d.Post.Content
	*dest[3].(*bool) = d.Post.Published
	*dest[4].(*time.Time) = d.Post.CreatedAt
	*dest[5].(*int) = d.Post.UserID
	*dest[6].(*string) = d.Owner.Email
	*dest[7].(*time.Time) = d.Owner.CreatedAt
	*dest[8].(*int) = d.Votes
}

// fakeRows 實作 pgx.Rows，用於模擬多筆掃描行為。
type fakeRows struct {
	data    []model.PostDetail
	idx     int
	scanErr error
	err     error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	scanDetail(dest, &r.data[r.idx])
	r.idx++
	return nil
}
func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }
