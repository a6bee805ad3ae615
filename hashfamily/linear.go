/*
Package hashfamily implements the universal hash family approxfilters uses
to pick bucket/slot positions, plus the murmur128 hash used to derive
fingerprints. Both are ported from the approxfilters teacher's equivalents:
the linear family from the original C++ source's hash.h, murmur128 from
gostatix's murmur.go.
*/
package hashfamily

import (
	"math"
	"math/rand"
)

// largePrime is the fixed modulus of the linear hash family, matching
// original_source/hash.h's kLargePrimeNumber.
const largePrime = 2932031007403

// LinearHash is a member of the universal family h(x) = (alpha*x + beta) mod P.
type LinearHash struct {
	alpha uint64
	beta  uint64
	prime uint64
}

// NewLinearHash builds a LinearHash from explicit parameters, reducing alpha
// and beta modulo prime the way original_source/hash.h's constructor does.
func NewLinearHash(alpha, beta, prime uint64) LinearHash {
	return LinearHash{alpha: alpha % prime, beta: beta % prime, prime: prime}
}

// HashUint64 hashes an integer key: (alpha*x + beta) mod P.
func (h LinearHash) HashUint64(x uint64) uint64 {
	return (mulmod(x%h.prime, h.alpha, h.prime) + h.beta) % h.prime
}

// HashBytes treats b as the coefficients of a polynomial in alpha, mod P —
// the generalization of original_source/hash.h's std::string overload to
// any byte slice, since every filter in this module keys on []byte.
func (h LinearHash) HashBytes(b []byte) uint64 {
	var hash, pow uint64 = 0, 1
	for _, c := range b {
		hash = (hash + mulmod(uint64(c), pow, h.prime)) % h.prime
		pow = mulmod(pow, h.alpha, h.prime)
	}
	return hash
}

// mulmod multiplies a*b mod m without overflowing uint64, since a and b can
// each be close to the 2932031007403 prime.
func mulmod(a, b, m uint64) uint64 {
	var result uint64
	a %= m
	for b > 0 {
		if b&1 == 1 {
			result = (result + a) % m
		}
		a = (a * 2) % m
		b >>= 1
	}
	return result
}

// Builder samples LinearHash instances from a pseudorandom source, mirroring
// original_source/hash.h's LinearHashFunctionBuilder.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder wraps an rng (normally backed by internal/mt19937.Source) for
// sampling hash family members.
func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// Sample draws a fresh LinearHash with alpha in [1, MaxInt32] and beta in
// [0, MaxInt32), over the fixed prime.
func (b *Builder) Sample() LinearHash {
	alpha := uint64(b.rng.Int31n(1<<31-1)) + 1
	beta := uint64(b.rng.Int31n(math.MaxInt32))
	return NewLinearHash(alpha, beta, largePrime)
}
