package genstore

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestRedisGenStoreConfig(t *testing.T) {
	if _, err := NewRedisGenStore(RedisConfig{}); err == nil {
		t.Fatalf("expected error for nil client")
	}

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	s, err := NewRedisGenStore(RedisConfig{Client: rdb})
	if err != nil {
		t.Fatalf("NewRedisGenStore: %v", err)
	}
	if got := s.key("frame:ns:123"); got != "gen:frame:ns:123" {
		t.Fatalf("key=%q", got)
	}
}
