/*
Package bitvector implements a succinct bit vector with O(1) Rank and
near-O(1) Select, the positional index that backs SuRF's LOUDS-encoded trie.
Raw bits are kept in a github.com/bits-and-blooms/bitset.BitSet, the same
library gostatix's BitSetMem wraps; the rank/select auxiliary structures are
packed vector.CompressedVectors, ported from original_source/bitvector.h.
*/
package bitvector

import (
	"math/bits"

	"github.com/bits-and-blooms/bitset"

	"github.com/ageraab/approxfilters/vector"
)

const (
	aggregateStep  = 256
	basicBlockSize = 32
	selectStep     = 256
)

// BitVector is an immutable, rank/select-indexed bit vector. It is built in
// two phases: PushBack appends bits one at a time, then Build computes the
// aggregates, blocks and select samples needed to answer Rank and Select in
// (amortized) constant time.
type BitVector struct {
	bits *bitset.BitSet
	size uint

	aggregates  *vector.CompressedVector
	blocks      *vector.CompressedVector
	selectStats *vector.CompressedVector
	onesCount   uint
}

// NewBitVector returns an empty BitVector ready for PushBack.
func NewBitVector() *BitVector {
	return &BitVector{bits: bitset.New(0)}
}

// PushBack appends a single bit. It must not be called after Build.
func (b *BitVector) PushBack(x bool) {
	if x {
		b.bits.Set(b.size)
	}
	b.size++
}

// Get returns the bit at position i.
func (b *BitVector) Get(i uint) bool {
	return b.bits.Test(i)
}

// Set overwrites a previously pushed bit. It must only be called before
// Build, to fix up a bit emitted earlier in a build pass (e.g. SuRF marking
// a trie node as having a child only once that child is actually emitted).
func (b *BitVector) Set(i uint, x bool) {
	if x {
		b.bits.Set(i)
	} else {
		b.bits.Clear(i)
	}
}

// Size returns the total size, in bits, of the data plus its rank/select
// auxiliary structures.
func (b *BitVector) Size() uint {
	total := b.size
	if b.aggregates != nil {
		total += b.aggregates.BitsSize()
	}
	if b.blocks != nil {
		total += b.blocks.BitsSize()
	}
	if b.selectStats != nil {
		total += b.selectStats.BitsSize()
	}
	return total
}

// Build computes the rank/select auxiliary structures. It must be called
// exactly once, after the last PushBack and before the first Rank or
// Select.
func (b *BitVector) Build() {
	b.initBlocks()
	b.initSelectStats()
}

func blockBitsCount(size uint) uint {
	if size == 0 {
		return 4
	}
	x := uint(bits.Len(uint(size - 1)))
	for x%4 != 0 {
		x++
	}
	if x == 0 {
		x = 4
	}
	return x
}

func ceilDiv(a, b uint) uint {
	if a == 0 {
		return 0
	}
	return (a-1)/b + 1
}

func (b *BitVector) initBlocks() {
	largeBlocksCount := ceilDiv(b.size, aggregateStep)
	smallBlocksCount := ceilDiv(b.size, basicBlockSize)
	if largeBlocksCount == 0 {
		largeBlocksCount = 1
	}
	if smallBlocksCount == 0 {
		smallBlocksCount = 1
	}
	// Aggregates count up to size itself, so they need room for size+1 values.
	b.aggregates = vector.NewCompressedVector(largeBlocksCount, blockBitsCount(b.size+1))
	b.blocks = vector.NewCompressedVector(smallBlocksCount, blockBitsCount(basicBlockSize+1))

	var onesCount, basicBlockOnesCount uint
	for i := uint(0); i < b.size; i++ {
		if i > 0 && i%aggregateStep == 0 {
			b.aggregates.Set(i/aggregateStep-1, uint32(onesCount))
		}
		if i > 0 && i%basicBlockSize == 0 {
			b.blocks.Set(i/basicBlockSize-1, uint32(basicBlockOnesCount))
			basicBlockOnesCount = 0
		}
		if b.bits.Test(i) {
			onesCount++
			basicBlockOnesCount++
		}
	}
	if b.size > 0 {
		b.aggregates.Set(largeBlocksCount-1, uint32(onesCount))
		b.blocks.Set(smallBlocksCount-1, uint32(basicBlockOnesCount))
	}
	b.onesCount = onesCount
}

func (b *BitVector) initSelectStats() {
	selectBlocksCount := b.onesCount / selectStep
	b.selectStats = vector.NewCompressedVector(selectBlocksCount, blockBitsCount(b.size))

	j := -1
	var bitCount uint
	for i := uint(0); i < selectBlocksCount; i++ {
		for bitCount < selectStep*(i+1) {
			j++
			if b.bits.Test(uint(j)) {
				bitCount++
			}
		}
		b.selectStats.Set(i, uint32(j))
	}
}

// Rank returns the number of set bits in [0, pos], i.e. a 1-indexed count of
// ones up to and including position pos.
func (b *BitVector) Rank(pos uint) uint {
	if b.size == 0 {
		return 0
	}

	largeBlockNumber := pos / aggregateStep
	smallBlockNumber := pos / basicBlockSize

	var rank uint
	if largeBlockNumber > 0 {
		aggIdx := largeBlockNumber - 1
		if aggIdx >= b.aggregates.Size() {
			return b.onesCount
		}
		rank = uint(b.aggregates.Get(aggIdx))
	}

	blocksCount := b.blocks.Size()
	blockEnd := smallBlockNumber
	if blockEnd > blocksCount {
		blockEnd = blocksCount
	}
	for i := largeBlockNumber * aggregateStep / basicBlockSize; i < blockEnd; i++ {
		rank += uint(b.blocks.Get(i))
	}

	for i := smallBlockNumber * basicBlockSize; i <= pos && i < b.size; i++ {
		if b.bits.Test(i) {
			rank++
		}
	}

	return rank
}

// Select returns the position of the i-th set bit (1-indexed), or returns a
// negative result via the ok=false return when fewer than i bits are set.
func (b *BitVector) Select(i uint) (pos int, ok bool) {
	selectBucket := i / selectStep
	cnt := selectBucket * selectStep
	pos = -1
	if selectBucket > 0 {
		pos = int(b.selectStats.Get(selectBucket - 1))
	}

	largeBlockNumber := uint(0)
	if pos > 0 {
		largeBlockNumber = uint(pos) / aggregateStep
	}
	for largeBlockNumber < b.aggregates.Size() {
		newCnt := uint(b.aggregates.Get(largeBlockNumber))
		if newCnt < i {
			cnt = newCnt
			pos = int((largeBlockNumber+1)*aggregateStep) - 1
			largeBlockNumber++
		} else {
			break
		}
	}

	for cnt < i {
		pos++
		if uint(pos) >= b.size {
			return -1, false
		}
		if b.bits.Test(uint(pos)) {
			cnt++
		}
	}

	return pos, true
}
