package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var pgxpoolNew = pgxpool.New

// pgxDB 以 Begin 回傳介面型別包裝 pgxpool.Pool
type pgxDB struct {
	*pgxpool.Pool
}

func (d *pgxDB) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// NewPgxPool 建立資料庫連線池並以 DB 介面回傳
func NewPgxPool(ctx context.Context, url string) (DB, error) {
	pool, err := pgxpoolNew(ctx, url)
	if err != nil {
		return nil, err
	}
	return &pgxDB{pool}, nil
}
