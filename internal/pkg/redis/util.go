package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// 仅当值仍属于持有者时删除
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 基于 SET NX 的跨进程互斥锁
type Lock struct {
	rdb   redis.UniversalClient
	key   string
	owner string
	ttl   time.Duration
}

func NewLock(rdb redis.UniversalClient, key, owner string, ttl time.Duration) *Lock {
	return &Lock{rdb: rdb, key: key, owner: owner, ttl: ttl}
}

// TryLock 尝试获取锁，retryTimes 为 -1 时无限重试
func (l *Lock) TryLock(ctx context.Context, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := l.rdb.SetNX(ctx, l.key, l.owner, l.ttl).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return false, nil
}

// Unlock 释放锁，锁已过期或被他人持有时返回 false
func (l *Lock) Unlock(ctx context.Context) (bool, error) {
	n, err := unlockScript.Run(ctx, l.rdb, []string{l.key}, l.owner).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
