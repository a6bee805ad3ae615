package filters

import (
	"math/rand"

	"github.com/ageraab/approxfilters/hashfamily"
	"github.com/ageraab/approxfilters/internal/mt19937"
	"github.com/ageraab/approxfilters/internal/util"
	"github.com/ageraab/approxfilters/vector"
)

// Cuckoo filter defaults, spec.md §6.3.
const (
	DefaultCuckooMaxBuckets      = 1 << 18
	DefaultCuckooBucketSize      = 4
	DefaultCuckooFingerprintBits = 8
	DefaultCuckooMaxKicks        = 500
	// DefaultCuckooSeed matches original_source/cuckoo_filter.h's
	// CuckooFilter() : generator_(1111).
	DefaultCuckooSeed = 1111
)

// kick records one eviction performed while inserting a fingerprint, so a
// failed, non-destructive insertion can be rewound exactly as it found the
// table.
type kick struct {
	bucket uint64
	slot   uint64
	fp     uint32
}

// CuckooFilter is a partial-key cuckoo filter: spec.md §3.3/§4.5. It holds
// its fingerprint table directly as a vector.CompressedVector (ported from
// original_source/cuckoo_filter.h) rather than gostatix's string-keyed
// BucketMem, since a fixed-width fingerprint doesn't need a variable-length
// bucket abstraction. alternateBucket is a field, not a method, so
// VacuumFilter can override it by composition instead of subclassing —
// spec.md §9's design note.
type CuckooFilter struct {
	table           *vector.CompressedVector
	bucketCount     uint64
	bucketSize      uint64
	fingerprintBits uint64
	maxFingerprint  uint32 // sentinel: empty slot, (1<<fingerprintBits)-1
	maxKicks        uint64

	size          uint64
	usedSpaceBits uint64

	hashes         [2]hashfamily.LinearHash
	rng            *rand.Rand
	alternateBucket func(bucket uint64, fp uint32) uint64
}

// NewCuckooFilter allocates a CuckooFilter whose bucket count is the
// largest power of two not exceeding maxBuckets (spec.md §3.3), with
// bucketSize slots per bucket and fingerprintBits-wide fingerprints.
func NewCuckooFilter(maxBuckets, bucketSize, fingerprintBits uint64) *CuckooFilter {
	return NewCuckooFilterWithRetriesAndSeed(maxBuckets, bucketSize, fingerprintBits, DefaultCuckooMaxKicks, DefaultCuckooSeed)
}

// NewCuckooFilterWithRetries is NewCuckooFilter with an explicit max-kicks
// budget.
func NewCuckooFilterWithRetries(maxBuckets, bucketSize, fingerprintBits, maxKicks uint64) *CuckooFilter {
	return NewCuckooFilterWithRetriesAndSeed(maxBuckets, bucketSize, fingerprintBits, maxKicks, DefaultCuckooSeed)
}

// NewCuckooFilterWithRetriesAndSeed additionally fixes the PRNG seed, for
// reproducible kick-out sequences in tests.
func NewCuckooFilterWithRetriesAndSeed(maxBuckets, bucketSize, fingerprintBits, maxKicks uint64, seed uint32) *CuckooFilter {
	bucketCount := realBucketCount(maxBuckets)
	return newCuckooFilter(bucketCount, bucketSize, fingerprintBits, maxKicks, seed)
}

// NewCuckooFilterWithErrorRate sizes a CuckooFilter to hold size items at
// errorRate, the way gostatix's NewCuckooFilterWithErrorRate does.
func NewCuckooFilterWithErrorRate(size, bucketSize, maxKicks uint64, errorRate float64) *CuckooFilter {
	fingerprintBits := util.CalculateFingerPrintLength(size, errorRate)
	capacity := uint64(float64(size) / (float64(bucketSize) * 0.955))
	return NewCuckooFilterWithRetries(capacity, bucketSize, fingerprintBits, maxKicks)
}

func newCuckooFilter(bucketCount, bucketSize, fingerprintBits, maxKicks uint64, seed uint32) *CuckooFilter {
	rng := rand.New(mt19937.New(seed))
	builder := hashfamily.NewBuilder(rng)
	c := &CuckooFilter{
		bucketCount:     bucketCount,
		bucketSize:      bucketSize,
		fingerprintBits: fingerprintBits,
		maxFingerprint:  uint32(1<<fingerprintBits) - 1,
		maxKicks:        maxKicks,
		hashes:          [2]hashfamily.LinearHash{builder.Sample(), builder.Sample()},
		rng:             rng,
	}
	c.alternateBucket = c.defaultAlternateBucket
	c.table = vector.NewCompressedVector(uint(bucketCount*bucketSize), uint(fingerprintBits))
	for i := uint(0); i < c.table.Size(); i++ {
		c.table.Set(i, c.maxFingerprint)
	}
	return c
}

// realBucketCount returns the largest power of two <= maxBuckets, per
// spec.md §3.3 ("bucket_count is a power of two ... chosen as the largest
// such <= requested max").
func realBucketCount(maxBuckets uint64) uint64 {
	count := uint64(1)
	for count<<1 <= maxBuckets {
		count <<= 1
	}
	return count
}

// fingerprint reduces value's murmur128 hash modulo 2^f-1, so it never
// collides with the sentinel all-ones value (spec.md §4.5).
func (c *CuckooFilter) fingerprint(value []byte) uint32 {
	h := hashfamily.Sum64(value)
	return uint32(h % uint64(c.maxFingerprint))
}

func (c *CuckooFilter) primaryBucket(value []byte) uint64 {
	return c.hashes[0].HashBytes(value) % c.bucketCount
}

// defaultAlternateBucket is the plain cuckoo XOR-symmetric alternate
// bucket: i1 XOR (h1(fp) mod B) and back, since XOR is its own inverse.
func (c *CuckooFilter) defaultAlternateBucket(bucket uint64, fp uint32) uint64 {
	return (bucket ^ (c.hashes[1].HashUint64(uint64(fp)) % c.bucketCount)) % c.bucketCount
}

func (c *CuckooFilter) slotIndex(bucket, slot uint64) uint {
	return uint(bucket*c.bucketSize + slot)
}

func (c *CuckooFilter) slotValue(bucket, slot uint64) uint32 {
	return c.table.Get(c.slotIndex(bucket, slot))
}

func (c *CuckooFilter) setSlot(bucket, slot uint64, value uint32) {
	c.table.Set(c.slotIndex(bucket, slot), value)
}

// tryAddItem scans bucket's bucketSize slots for fp (dedup) or a free slot.
func (c *CuckooFilter) tryAddItem(fp uint32, bucket uint64) (placed, alreadyPresent bool) {
	for slot := uint64(0); slot < c.bucketSize; slot++ {
		v := c.slotValue(bucket, slot)
		if v == c.maxFingerprint {
			c.setSlot(bucket, slot, fp)
			return true, false
		}
		if v == fp {
			return true, true
		}
	}
	return false, false
}

func (c *CuckooFilter) bucketHasFingerprint(bucket uint64, fp uint32) bool {
	for slot := uint64(0); slot < c.bucketSize; slot++ {
		if c.slotValue(bucket, slot) == fp {
			return true
		}
	}
	return false
}

// Insert places value's fingerprint in its primary or alternate bucket,
// evicting and re-placing existing fingerprints up to maxKicks times if
// both are full (spec.md §4.5). destructive=false rewinds every eviction
// performed in a failed attempt, leaving the table exactly as it was;
// destructive=true leaves the partial kicks in place — the same contract
// as gostatix's CuckooFilter.Insert. On exhaustion this returns an
// *InsertionFailureError rather than panicking, since spec.md §7 requires
// InsertionFailure to be a caller-visible error, not a crash.
func (c *CuckooFilter) Insert(value []byte, destructive bool) error {
	fp := c.fingerprint(value)
	i1 := c.primaryBucket(value)
	i2 := c.alternateBucket(i1, fp)

	if placed, already := c.tryAddItem(fp, i1); placed {
		c.recordInsert(already)
		return nil
	}
	if placed, already := c.tryAddItem(fp, i2); placed {
		c.recordInsert(already)
		return nil
	}

	bucket := i1
	if c.rng.Float32() < 0.5 {
		bucket = i2
	}

	var kicks []kick
	for i := uint64(0); i < c.maxKicks; i++ {
		slot := uint64(c.rng.Intn(int(c.bucketSize)))
		evicted := c.slotValue(bucket, slot)
		kicks = append(kicks, kick{bucket, slot, evicted})
		c.setSlot(bucket, slot, fp)

		fp = evicted
		bucket = c.alternateBucket(bucket, fp)
		if placed, already := c.tryAddItem(fp, bucket); placed {
			c.recordInsert(already)
			return nil
		}
	}

	if !destructive {
		for i := len(kicks) - 1; i >= 0; i-- {
			k := kicks[i]
			c.setSlot(k.bucket, k.slot, k.fp)
		}
	}
	return &InsertionFailureError{Occupancy: c.size, Capacity: c.bucketCount * c.bucketSize}
}

func (c *CuckooFilter) recordInsert(alreadyPresent bool) {
	c.size++
	if !alreadyPresent {
		c.usedSpaceBits += c.fingerprintBits
	}
}

// Build inserts every value, non-destructively, stopping at the first
// insertion failure.
func (c *CuckooFilter) Build(values [][]byte) error {
	for _, v := range values {
		if err := c.Insert(v, false); err != nil {
			return err
		}
	}
	return nil
}

// Find reports whether value's fingerprint is present in either of its two
// candidate buckets.
func (c *CuckooFilter) Find(value []byte) bool {
	fp := c.fingerprint(value)
	i1 := c.primaryBucket(value)
	i2 := c.alternateBucket(i1, fp)
	return c.bucketHasFingerprint(i1, fp) || c.bucketHasFingerprint(i2, fp)
}

// GetHashTableSizeBits returns the fingerprint table's total size in bits.
func (c *CuckooFilter) GetHashTableSizeBits() (uint64, bool) {
	return uint64(c.table.BitsSize()), true
}

// GetUsedSpaceBits returns the number of bits actually occupied by distinct
// fingerprints (duplicates don't recount, spec.md §4.5 edge cases).
func (c *CuckooFilter) GetUsedSpaceBits() (uint64, bool) {
	return c.usedSpaceBits, true
}
