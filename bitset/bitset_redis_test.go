package bitset

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("could not start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestBitSetRedisHasInsert(t *testing.T) {
	client := newTestRedisClient(t)
	bits, err := NewBitSetRedis(client, "bf", 8)
	if err != nil {
		t.Fatalf("could not create redis bitset: %v", err)
	}
	bits.Insert(1)
	bits.Insert(3)
	bits.Insert(7)
	if ok, _ := bits.Has(1); !ok {
		t.Fatalf("should be true at index 1, got %v", ok)
	}
	if ok, _ := bits.Has(4); ok {
		t.Fatalf("should be false at index 4, got %v", ok)
	}
}

func TestBitSetRedisInsertReturnsWasUnset(t *testing.T) {
	client := newTestRedisClient(t)
	bits, _ := NewBitSetRedis(client, "bf", 4)
	first, _ := bits.Insert(1)
	second, _ := bits.Insert(1)
	if !first {
		t.Fatal("first insert of index 1 should report it was unset")
	}
	if second {
		t.Fatal("second insert of index 1 should report it was already set")
	}
}

func TestBitSetRedisBitCount(t *testing.T) {
	client := newTestRedisClient(t)
	bits, _ := NewBitSetRedis(client, "bf", 8)
	bits.Insert(0)
	bits.Insert(1)
	bits.Insert(3)
	count, _ := bits.BitCount()
	if count != 3 {
		t.Fatalf("count of set bits should be 3, got %v", count)
	}
}

func TestBitSetRedisIndependentKeys(t *testing.T) {
	client := newTestRedisClient(t)
	a, _ := NewBitSetRedis(client, "a", 8)
	b, _ := NewBitSetRedis(client, "b", 8)
	a.Insert(0)
	if ok, _ := b.Has(0); ok {
		t.Fatal("bitset b should be unaffected by writes to bitset a")
	}
}
