package bitset

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// BitSetRedis is an IBitSet backed by a single Redis string, addressed with
// SETBIT/GETBIT/BITCOUNT, giving BloomFilter a Redis-resident alternative to
// BitSetMem when the filter's bit array is too large for one process — the
// same mem/Redis split vector.RedisWordStore draws for CompressedVector.
type BitSetRedis struct {
	client *redis.Client
	key    string
	size   uint
}

// NewBitSetRedis allocates a BitSetRedis of size bits, all clear, under key
// on client. The caller owns the client's lifecycle.
func NewBitSetRedis(client *redis.Client, key string, size uint) (*BitSetRedis, error) {
	bitSet := &BitSetRedis{client: client, key: key, size: size}
	if size == 0 {
		return bitSet, nil
	}
	lastBit := int64(size) - 1
	_, err := client.SetBit(context.Background(), key, lastBit, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("approxfilters: error initializing redis bitset %q: %v", key, err)
	}
	return bitSet, nil
}

// Size returns the number of bits the set was created with.
func (bitSet *BitSetRedis) Size() uint {
	return bitSet.size
}

// Has reports whether the bit at index is set.
func (bitSet *BitSetRedis) Has(index uint) (bool, error) {
	val, err := bitSet.client.GetBit(context.Background(), bitSet.key, int64(index)).Result()
	if err != nil {
		return false, err
	}
	return val != 0, nil
}

// Insert sets the bit at index, returning true iff it was previously unset.
func (bitSet *BitSetRedis) Insert(index uint) (bool, error) {
	prev, err := bitSet.client.SetBit(context.Background(), bitSet.key, int64(index), 1).Result()
	if err != nil {
		return false, err
	}
	return prev == 0, nil
}

// BitCount returns the number of set bits.
func (bitSet *BitSetRedis) BitCount() (uint, error) {
	bitRange := &redis.BitCount{Start: 0, End: -1}
	val, err := bitSet.client.BitCount(context.Background(), bitSet.key, bitRange).Result()
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}
