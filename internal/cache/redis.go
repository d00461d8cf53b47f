package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient 抽象 *redis.Client，方便測試替換
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

var redisNewClient = func(o *redis.Options) redisClient { return redis.NewClient(o) }

// NewRedisClient 建立並回傳一個 Redis 客戶端實例
// addr: Redis 伺服器位址（如 "localhost:6379"）
// password: Redis 密碼（若無密碼可留空）
// db: 選擇的 Redis 資料庫索引（預設為 0）
// 本函式會在 5 秒內完成 Ping 測試，若連線失敗則返回錯誤。
func NewRedisClient(addr, password string, db int) (Cache, error) {
	rdb := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 使用短超時檢查連線
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
