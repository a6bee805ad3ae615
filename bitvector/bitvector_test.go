package bitvector

import "testing"

func buildFromBools(bits []bool) *BitVector {
	b := NewBitVector()
	for _, x := range bits {
		b.PushBack(x)
	}
	b.Build()
	return b
}

func TestRankMatchesNaiveCount(t *testing.T) {
	pattern := make([]bool, 1000)
	for i := range pattern {
		pattern[i] = i%3 == 0
	}
	b := buildFromBools(pattern)

	var naive uint
	for i, x := range pattern {
		if x {
			naive++
		}
		if got := b.Rank(uint(i)); got != naive {
			t.Fatalf("Rank(%d) = %d, want %d", i, got, naive)
		}
	}
}

func TestSelectFindsNthOne(t *testing.T) {
	pattern := make([]bool, 2000)
	for i := range pattern {
		pattern[i] = i%7 == 0
	}
	b := buildFromBools(pattern)

	var ones []int
	for i, x := range pattern {
		if x {
			ones = append(ones, i)
		}
	}

	for n := 1; n <= len(ones); n++ {
		pos, ok := b.Select(uint(n))
		if !ok {
			t.Fatalf("Select(%d): unexpected !ok", n)
		}
		if pos != ones[n-1] {
			t.Fatalf("Select(%d) = %d, want %d", n, pos, ones[n-1])
		}
	}
}

func TestSelectBeyondOnesCountFails(t *testing.T) {
	b := buildFromBools([]bool{true, false, true, false})
	if _, ok := b.Select(10); ok {
		t.Fatal("Select beyond the number of set bits should report ok=false")
	}
}

func TestEmptyBitVectorBoundary(t *testing.T) {
	b := NewBitVector()
	b.Build()
	if got := b.Rank(0); got != 0 {
		t.Fatalf("Rank(0) on empty vector = %d, want 0", got)
	}
	if _, ok := b.Select(1); ok {
		t.Fatal("Select(1) on an empty vector must report ok=false")
	}
}

func TestSizeAccountsForAuxiliaryStructures(t *testing.T) {
	pattern := make([]bool, 500)
	b := buildFromBools(pattern)
	if b.Size() <= 500 {
		t.Fatalf("Size() = %d, should exceed the raw bit count once aggregates are included", b.Size())
	}
}

func TestSpanningMultipleAggregateBlocks(t *testing.T) {
	pattern := make([]bool, 5000)
	for i := range pattern {
		pattern[i] = (i*37)%101 == 0
	}
	b := buildFromBools(pattern)

	var naive uint
	for _, x := range pattern {
		if x {
			naive++
		}
	}
	if got := b.Rank(uint(len(pattern) - 1)); got != naive {
		t.Fatalf("Rank(last) = %d, want %d", got, naive)
	}
}
