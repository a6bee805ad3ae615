package filters

import (
	"encoding/binary"
	"fmt"
	"testing"
)

func intKey(i int) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(i))
	return b
}

func TestCuckooFilterNoFalseNegatives(t *testing.T) {
	cf := NewCuckooFilter(1<<12, 4, 8)
	var values [][]byte
	for i := 0; i < 1000; i++ {
		values = append(values, intKey(i))
	}
	if err := cf.Build(values); err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	for _, v := range values {
		if !cf.Find(v) {
			t.Fatalf("false negative for %v", v)
		}
	}
}

func TestCuckooFilterAlternateBucketSymmetry(t *testing.T) {
	cf := NewCuckooFilter(1<<10, 4, 8)
	for fp := uint32(0); fp < uint32(cf.maxFingerprint); fp += 7 {
		for bucket := uint64(0); bucket < cf.bucketCount; bucket += 13 {
			alt := cf.alternateBucket(bucket, fp)
			back := cf.alternateBucket(alt, fp)
			if back != bucket {
				t.Fatalf("alternate(alternate(%d, %d)) = %d, want %d", bucket, fp, back, bucket)
			}
		}
	}
}

func TestCuckooFilterDuplicateInsertIsNoOp(t *testing.T) {
	cf := NewCuckooFilter(1<<10, 4, 8)
	if err := cf.Insert([]byte("dup"), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	usedBefore, _ := cf.GetUsedSpaceBits()
	if err := cf.Insert([]byte("dup"), false); err != nil {
		t.Fatalf("unexpected error on duplicate insert: %v", err)
	}
	usedAfter, _ := cf.GetUsedSpaceBits()
	if usedBefore != usedAfter {
		t.Fatalf("duplicate insert should not grow used space: %v -> %v", usedBefore, usedAfter)
	}
}

func TestCuckooFilterInsertionFailureIsNonDestructive(t *testing.T) {
	// A tiny table (4 one-slot buckets) forces exhaustion quickly; a small
	// nonzero kick budget makes the failed insertion perform kicks that the
	// non-destructive path must rewind.
	cf := NewCuckooFilterWithRetries(4, 1, 4, 8)
	var inserted [][]byte
	var failed bool
	for i := 0; i < 64 && !failed; i++ {
		v := []byte(fmt.Sprintf("k%d", i))
		err := cf.Insert(v, false)
		if err != nil {
			failed = true
			continue
		}
		inserted = append(inserted, v)
	}
	if !failed {
		t.Skip("table did not fill within the probe budget")
	}
	for _, v := range inserted {
		if !cf.Find(v) {
			t.Fatalf("non-destructive rewind should not evict previously inserted %q", v)
		}
	}
}

func TestCuckooFilterReportedSizes(t *testing.T) {
	cf := NewCuckooFilter(1<<8, 4, 8)
	size, ok := cf.GetHashTableSizeBits()
	if !ok || size == 0 {
		t.Fatalf("expected nonzero hash table size, got %v", size)
	}
}
