/*
Package filters implements the fixed-size approximate-membership filters:
BloomFilter, CuckooFilter, VacuumFilter and XorFilter. All four satisfy
Filter; SuRF lives in the surf package because it needs a richer,
generic-over-key-type contract (Converter, FindPrefix, FindRange) that the
other four don't.
*/
package filters

import "fmt"

// Filter is the uniform Build/Find contract every fixed-size filter in this
// package satisfies. Find never fails: it returns false negatives never,
// false positives sometimes. Only Build can fail, for CuckooFilter/
// VacuumFilter (kick-out exhaustion) and XorFilter (peeling failure).
type Filter interface {
	Build(values [][]byte) error
	Find(value []byte) bool
	GetHashTableSizeBits() (uint64, bool)
	GetUsedSpaceBits() (uint64, bool)
}

// InsertionFailureError is returned by CuckooFilter/VacuumFilter when
// MaxKicks kick-outs fail to place a fingerprint. Occupancy is the table's
// item count at the moment of failure, so the caller can decide whether to
// rebuild with a larger capacity or abort.
type InsertionFailureError struct {
	Occupancy uint64
	Capacity  uint64
}

func (e *InsertionFailureError) Error() string {
	return fmt.Sprintf("approxfilters: insertion failed, table holds %d/%d items", e.Occupancy, e.Capacity)
}

// BuildFailureError is returned by XorFilter.Build when maxBuildRetries
// hash reseeds all fail to peel the key hypergraph. The caller should
// enlarge the table (a larger coefficient or more extra slots).
type BuildFailureError struct {
	Retries uint
	Keys    int
}

func (e *BuildFailureError) Error() string {
	return fmt.Sprintf("approxfilters: xor filter build failed to peel %d keys after %d retries", e.Keys, e.Retries)
}
