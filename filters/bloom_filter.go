package filters

import (
	"math/rand"

	"github.com/ageraab/approxfilters/bitset"
	"github.com/ageraab/approxfilters/hashfamily"
	"github.com/ageraab/approxfilters/internal/mt19937"
	"github.com/ageraab/approxfilters/internal/util"
)

// Bloom filter defaults, spec.md §6.3.
const (
	DefaultBloomBuckets = 8_000_000
	DefaultBloomHashes  = 6
	// DefaultBloomSeed matches original_source/main.cpp's shared generator
	// seed (std::mt19937 generator(228)), the instance the original passes
	// into BloomFilter::Init.
	DefaultBloomSeed = 228
)

// BloomFilter is a k-hash bitset filter: spec.md §4.4.
type BloomFilter struct {
	buckets   bitset.IBitSet
	numHashes uint
	hashes    []hashfamily.LinearHash
	usedSpace uint
}

// NewBloomFilter allocates a BloomFilter over buckets bits with numHashes
// independently-sampled hash functions, backed by an in-memory bitset.
func NewBloomFilter(buckets, numHashes uint) *BloomFilter {
	return NewBloomFilterWithSeed(buckets, numHashes, DefaultBloomSeed)
}

// NewBloomFilterWithSeed is NewBloomFilter with an explicit PRNG seed, so
// the sampled hash family is reproducible in tests.
func NewBloomFilterWithSeed(buckets, numHashes uint, seed uint32) *BloomFilter {
	return newBloomFilter(bitset.NewBitSetMem(buckets), buckets, numHashes, seed)
}

// NewBloomFilterWithBitSet wraps an existing bitset.IBitSet (e.g. a
// bitset.BitSetRedis), letting a caller choose the backing storage
// explicitly. The filter's size m is taken from backing.Size().
func NewBloomFilterWithBitSet(backing bitset.IBitSet, numHashes uint, seed uint32) *BloomFilter {
	return newBloomFilter(backing, backing.Size(), numHashes, seed)
}

// NewBloomFilterWithErrorRate sizes a BloomFilter to hold expectedItems at
// errorRate, using internal/util's sizing formulas (ported from gostatix's
// utils.go).
func NewBloomFilterWithErrorRate(expectedItems uint, errorRate float64) *BloomFilter {
	size := util.CalculateFilterSize(expectedItems, errorRate)
	numHashes := util.CalculateNumHashes(size, expectedItems)
	return NewBloomFilter(size, numHashes)
}

func newBloomFilter(backing bitset.IBitSet, buckets, numHashes uint, seed uint32) *BloomFilter {
	numHashes = util.Max(numHashes, 1)
	rng := rand.New(mt19937.New(seed))
	builder := hashfamily.NewBuilder(rng)
	hashes := make([]hashfamily.LinearHash, numHashes)
	for i := range hashes {
		hashes[i] = builder.Sample()
	}
	return &BloomFilter{buckets: backing, numHashes: numHashes, hashes: hashes}
}

// Build inserts every value into the filter. Idempotent: inserting the same
// value twice is a no-op past the first insertion.
func (f *BloomFilter) Build(values [][]byte) error {
	for _, v := range values {
		f.Insert(v)
	}
	return nil
}

// Insert sets the numHashes bits value hashes to.
func (f *BloomFilter) Insert(value []byte) {
	for _, h := range f.hashes {
		index := uint(h.HashBytes(value) % uint64(f.buckets.Size()))
		if wasUnset, _ := f.buckets.Insert(index); wasUnset {
			f.usedSpace++
		}
	}
}

// Find returns true iff every bit value hashes to is set.
func (f *BloomFilter) Find(value []byte) bool {
	for _, h := range f.hashes {
		index := uint(h.HashBytes(value) % uint64(f.buckets.Size()))
		if ok, _ := f.buckets.Has(index); !ok {
			return false
		}
	}
	return true
}

// GetHashTableSizeBits returns m, the bitset size.
func (f *BloomFilter) GetHashTableSizeBits() (uint64, bool) {
	return uint64(f.buckets.Size()), true
}

// GetUsedSpaceBits returns the number of distinct bits ever set.
func (f *BloomFilter) GetUsedSpaceBits() (uint64, bool) {
	return uint64(f.usedSpace), true
}
