// internal/cache/redis_test.go
package cache

import "testing"

// TestConnectRedisFailureLeavesClientNil checks the degraded mode: when
// redis is configured but unreachable, the global client must stay nil so
// every cache gate (action queue, leaderboard, session store) reads
// "not configured" instead of a dead client.
func TestConnectRedisFailureLeavesClientNil(t *testing.T) {
	t.Setenv("REDIS_ADDR", "127.0.0.1:0") // port 0 is never dialable

	if err := ConnectRedis(); err == nil {
		t.Fatalf("expected connection error for unreachable redis")
	}
	if Rdb != nil {
		t.Fatalf("failed connect must leave Rdb nil")
	}
}
