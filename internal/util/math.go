/*
Package util holds the small sizing formulas shared by the filters package,
ported from gostatix's top-level utils.go.
*/
package util

import "math"

// CalculateFilterSize returns the number of bits a Bloom filter needs to
// hold length items at the given errorRate.
func CalculateFilterSize(length uint, errorRate float64) uint {
	return uint(math.Ceil(-((float64(length) * math.Log(errorRate)) / math.Pow(math.Log(2), 2))))
}

// CalculateNumHashes returns the number of hash functions a Bloom filter of
// size size should use to hold length items.
func CalculateNumHashes(size, length uint) uint {
	return uint(math.Ceil(float64(size/length) * math.Log(2)))
}

// CalculateFingerPrintLength returns the fingerprint width, in bits, needed
// by a cuckoo-style filter sized size to hit errorRate.
func CalculateFingerPrintLength(size uint64, errorRate float64) uint64 {
	v := math.Ceil(math.Log2(1/errorRate) + math.Log2(float64(2*size)))
	return uint64(v)
}

// Max returns the larger of a and b.
func Max(a, b uint) uint {
	if a > b {
		return a
	}
	return b
}
