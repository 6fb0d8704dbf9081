package service

import (
	"context"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/seqcode"
	"github.com/redis/go-redis/v9"
)

// codeLockTTL bounds how long one allocation can hold the prefix lock.
const codeLockTTL = 3 * time.Second

// generateCode allocates the next free code for a prefix. The redis lock
// serializes allocation per prefix+year across server instances; when redis
// is not configured the DB re-check in seqcode still catches collisions.
func generateCode(ctx context.Context, rdb *redis.Client, prefix string, codes []string, exists seqcode.ExistsFunc) (string, error) {
	now := time.Now()

	if rdb != nil {
		key := "console:code_lock:" + prefix + "-" + now.Format("06")
		// Short spin: allocation is one SELECT away, contention is rare.
		for i := 0; i < 10; i++ {
			ok, err := rdb.SetNX(ctx, key, "1", codeLockTTL).Result()
			if err != nil {
				break // redis down: fall through, DB check still guards
			}
			if ok {
				defer rdb.Del(ctx, key)
				break
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
		}
	}

	return seqcode.Next(ctx, prefix, now, codes, exists)
}
