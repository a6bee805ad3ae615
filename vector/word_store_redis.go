package vector

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisWordStore is a WordStore backed by a single Redis string, addressed
// with BITFIELD the way gostatix's BitSetRedis/BucketRedis address their
// Redis-resident state with list/bitset commands. Each word is a 32-bit
// unsigned field at bit offset i*32, so CompressedVector's splice algorithm
// is unaffected by the choice of backing store.
type RedisWordStore struct {
	client *redis.Client
	key    string
	length uint
}

// NewRedisWordStore allocates a RedisWordStore with n words, all zero, under
// key on client. The client is passed in explicitly rather than taken from
// a process-wide singleton, and the caller owns its lifecycle.
func NewRedisWordStore(client *redis.Client, key string, n uint) (*RedisWordStore, error) {
	store := &RedisWordStore{client: client, key: key, length: n}
	if n == 0 {
		return store, nil
	}
	// Pre-size the backing string so later BITFIELD SET calls never extend it
	// mid-flight; a single SETRANGE with a zero byte at the last offset does.
	_, err := client.SetRange(context.Background(), key, int64(n)*4-1, "\x00").Result()
	if err != nil {
		return nil, fmt.Errorf("approxfilters: error initializing redis word store %q: %v", key, err)
	}
	return store, nil
}

// Len returns the number of words in the store.
func (s *RedisWordStore) Len() uint {
	return s.length
}

// Get returns the word at index i.
func (s *RedisWordStore) Get(i uint) uint32 {
	cmd := s.client.BitField(context.Background(), s.key, "GET", "u32", fmt.Sprintf("#%d", i))
	values, err := cmd.Result()
	if err != nil || len(values) == 0 {
		return 0
	}
	return uint32(values[0])
}

// Set stores v at index i.
func (s *RedisWordStore) Set(i uint, v uint32) {
	s.client.BitField(context.Background(), s.key, "SET", "u32", fmt.Sprintf("#%d", i), v)
}
