package bitset

import "github.com/bits-and-blooms/bitset"

// BitSetMem is an IBitSet backed by a github.com/bits-and-blooms/bitset.BitSet,
// the default storage for BloomFilter.
type BitSetMem struct {
	set  *bitset.BitSet
	size uint
}

// NewBitSetMem allocates a BitSetMem of size bits, all clear.
func NewBitSetMem(size uint) *BitSetMem {
	return &BitSetMem{bitset.New(size), size}
}

// Size returns the number of bits the set was created with.
func (bitSet *BitSetMem) Size() uint {
	return bitSet.size
}

// Has reports whether the bit at index is set.
func (bitSet *BitSetMem) Has(index uint) (bool, error) {
	return bitSet.set.Test(index), nil
}

// Insert sets the bit at index, returning true iff it was previously unset.
func (bitSet *BitSetMem) Insert(index uint) (bool, error) {
	wasSet := bitSet.set.Test(index)
	bitSet.set.Set(index)
	return !wasSet, nil
}

// BitCount returns the number of set bits.
func (bitSet *BitSetMem) BitCount() (uint, error) {
	return bitSet.set.Count(), nil
}
