package store

import (
	"context"
	"fmt"

	"postboard/internal/database"
	"postboard/internal/model"
)

func GetVote(ctx context.Context, db database.Querier, userID, postID int) (*model.Vote, error) {
	row := db.QueryRow(ctx,
		`SELECT user_id, post_id, dir
		 FROM votes WHERE user_id = $1 AND post_id = $2`,
		userID,
		postID,
	)
	v := &model.Vote{}
	if err := row.Scan(
		&v.UserID,
		&v.PostID,
		&v.Dir,
	); err != nil {
		return nil, fmt.Errorf("GetVote: %w", err)
	}
	return v, nil
}

func CreateVote(ctx context.Context, db database.Querier, v *model.Vote) error {
	_, err := db.Exec(ctx,
		`INSERT INTO votes (user_id, post_id, dir)
		 VALUES ($1, $2, $3)`,
		v.UserID,
		v.PostID,
		v.Dir,
	)
	if err != nil {
		return fmt.Errorf("CreateVote: %w", err)
	}
	return nil
}

func DeleteVote(ctx context.Context, db database.Querier, userID, postID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM votes WHERE user_id = $1 AND post_id = $2`,
		userID,
		postID,
	)
	if err != nil {
		return fmt.Errorf("DeleteVote: %w", err)
	}
	return nil
}
