package businessflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/utils"
)

// Moderation actions on a single account must not interleave. In-process
// callers are serialized with a keyed mutex; when a redis client is
// configured, a SETNX lock with TTL extends the guarantee across processes.
var (
	accountLocksMu sync.Mutex
	accountLocks   = make(map[string]*sync.Mutex)
)

func accountLockKey(role models.Role, accountID uint) string {
	return fmt.Sprintf("%s:%s:%d", utils.ModerationLockKeyPrefix, role, accountID)
}

func lockAccount(role models.Role, accountID uint) func() {
	key := accountLockKey(role, accountID)

	accountLocksMu.Lock()
	mu, ok := accountLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		accountLocks[key] = mu
	}
	accountLocksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// acquireDistributedLock takes the cross-process lock for an account. It
// returns a release func, or ErrAccountBusy when another process holds the
// lock. A nil client disables distributed locking.
func acquireDistributedLock(ctx context.Context, rc *redis.Client, role models.Role, accountID uint) (func(), error) {
	if rc == nil {
		return func() {}, nil
	}

	key := accountLockKey(role, accountID)
	ok, err := rc.SetNX(ctx, key, utils.UTCNowRFC3339(), utils.ModerationLockTTL).Result()
	if err != nil {
		// Lock service being down must not block moderation; callers record
		// a warning and proceed under the in-process lock only.
		return nil, err
	}
	if !ok {
		return nil, ErrAccountBusy
	}

	return func() {
		_ = rc.Del(context.Background(), key).Err()
	}, nil
}
