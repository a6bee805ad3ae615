package filters

import (
	"math"
	"math/rand"

	"github.com/ageraab/approxfilters/hashfamily"
	"github.com/ageraab/approxfilters/internal/mt19937"
	"github.com/ageraab/approxfilters/vector"
)

// Xor filter defaults, spec.md §6.3.
const (
	DefaultXorFingerprintBits = 8
	DefaultXorCoefficient     = 1.23
	DefaultXorExtraSlots      = 32
	// DefaultXorSeed matches original_source/xor_filter.h's
	// XorFilter() : generator_(2941).
	DefaultXorSeed = 2941
	// maxBuildRetries bounds the original's unbounded do...while reseed
	// loop, per spec.md §4.7's failure model and spec.md §5's requirement
	// that Build "must signal failure rather than loop forever".
	maxBuildRetries = 50
	xorHashesCount  = 3
)

// XorFilter is a 3-hash peeling-based static filter: spec.md §3.4/§4.7.
// Immutable once built — spec.md's non-goals rule out deletion.
type XorFilter struct {
	table           *vector.CompressedVector
	fingerprintBits uint
	coefficient     float64
	extraSlots      uint

	hashes    [xorHashesCount]hashfamily.LinearHash
	rng       *rand.Rand
	usedSlots uint64
}

// NewXorFilter configures an (as yet unbuilt) XorFilter. fingerprintBits is
// the per-slot width; coefficient*n+extraSlots is the table size built
// against n keys at Build time.
func NewXorFilter(fingerprintBits uint, coefficient float64, extraSlots uint) *XorFilter {
	return NewXorFilterWithSeed(fingerprintBits, coefficient, extraSlots, DefaultXorSeed)
}

// NewXorFilterWithSeed is NewXorFilter with an explicit PRNG seed.
func NewXorFilterWithSeed(fingerprintBits uint, coefficient float64, extraSlots uint, seed uint32) *XorFilter {
	return &XorFilter{
		fingerprintBits: fingerprintBits,
		coefficient:     coefficient,
		extraSlots:      extraSlots,
		rng:             rand.New(mt19937.New(seed)),
	}
}

type peelEntry struct {
	key []byte
	slot uint64
}

// Build sizes the table to ceil(coefficient*n)+extraSlots slots and runs
// the 3-hash peeling construction (spec.md §4.7), resampling all three
// hash functions and retrying on a failed peel, up to maxBuildRetries
// times.
func (f *XorFilter) Build(values [][]byte) error {
	tableSize := uint64(math.Ceil(f.coefficient*float64(len(values)))) + uint64(f.extraSlots)
	f.table = vector.NewCompressedVector(uint(tableSize), f.fingerprintBits)

	var stack []peelEntry
	var ok bool
	for attempt := uint(0); attempt < maxBuildRetries; attempt++ {
		builder := hashfamily.NewBuilder(f.rng)
		for i := range f.hashes {
			f.hashes[i] = builder.Sample()
		}
		stack, ok = f.peel(values, tableSize)
		if ok {
			break
		}
	}
	if !ok {
		return &BuildFailureError{Retries: maxBuildRetries, Keys: len(values)}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		f.table.Set(uint(entry.slot), 0)
		value := f.fingerprint(entry.key)
		for h := 0; h < xorHashesCount; h++ {
			value ^= f.table.Get(uint(f.hashIndex(entry.key, h, tableSize)))
		}
		f.table.Set(uint(entry.slot), value)
	}
	return nil
}

// peel runs the hypergraph-peeling mapping step: each key is an edge over
// its 3 candidate slots; repeatedly remove a slot incident to exactly one
// remaining key, until all keys are removed (success) or none remain to
// remove (failure), per spec.md §4.7 step 2.
func (f *XorFilter) peel(values [][]byte, tableSize uint64) ([]peelEntry, bool) {
	slotKeys := make([]map[string][]byte, tableSize)
	for i := range slotKeys {
		slotKeys[i] = make(map[string][]byte)
	}

	distinctKeys := make(map[string][]byte, len(values))
	for _, v := range values {
		distinctKeys[string(v)] = v
		for h := 0; h < xorHashesCount; h++ {
			idx := f.hashIndex(v, h, tableSize)
			slotKeys[idx][string(v)] = v
		}
	}

	var usedSlots uint64
	queue := make([]uint64, 0, len(values))
	for i := uint64(0); i < tableSize; i++ {
		if len(slotKeys[i]) > 0 {
			usedSlots++
			if len(slotKeys[i]) == 1 {
				queue = append(queue, i)
			}
		}
	}

	var stack []peelEntry
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		if len(slotKeys[idx]) != 1 {
			continue
		}
		var key []byte
		for _, v := range slotKeys[idx] {
			key = v
		}
		stack = append(stack, peelEntry{key: key, slot: idx})

		for h := 0; h < xorHashesCount; h++ {
			other := f.hashIndex(key, h, tableSize)
			delete(slotKeys[other], string(key))
			if len(slotKeys[other]) == 1 {
				queue = append(queue, other)
			}
		}
	}

	f.usedSlots = usedSlots
	return stack, len(stack) == len(distinctKeys)
}

// hashIndex partitions the table into xorHashesCount equal ranges and maps
// value into range h, per spec.md §4.7 step 1.
func (f *XorFilter) hashIndex(value []byte, h int, tableSize uint64) uint64 {
	rangeLen := tableSize / xorHashesCount
	return rangeLen*uint64(h) + f.hashes[h].HashBytes(value)%rangeLen
}

func (f *XorFilter) fingerprint(value []byte) uint32 {
	return uint32(hashfamily.Sum64(value) % (uint64(1) << f.fingerprintBits))
}

// Find returns fp(value) == the XOR of value's three slots, per spec.md
// §4.7/§8.1 ("Xor consistency").
func (f *XorFilter) Find(value []byte) bool {
	var result uint32
	tableSize := uint64(f.table.Size())
	for h := 0; h < xorHashesCount; h++ {
		result ^= f.table.Get(uint(f.hashIndex(value, h, tableSize)))
	}
	return result == f.fingerprint(value)
}

// GetHashTableSizeBits returns the table's total size in bits.
func (f *XorFilter) GetHashTableSizeBits() (uint64, bool) {
	return uint64(f.table.BitsSize()), true
}

// GetUsedSpaceBits returns usedSlots*fingerprintBits, the space actually
// touched by a key during the last successful peel.
func (f *XorFilter) GetUsedSpaceBits() (uint64, bool) {
	return f.usedSlots * uint64(f.fingerprintBits), true
}
