package bitset

import "testing"

func TestBitSetMemHasInsert(t *testing.T) {
	bits := NewBitSetMem(8)
	bits.Insert(2)
	bits.Insert(3)
	bits.Insert(7)
	if ok, _ := bits.Has(3); !ok {
		t.Fatalf("should be true at index 3, got %v", ok)
	}
	if ok, _ := bits.Has(4); ok {
		t.Fatalf("should be false at index 4, got %v", ok)
	}
}

func TestBitSetMemInsertReturnsWasUnset(t *testing.T) {
	bits := NewBitSetMem(4)
	first, _ := bits.Insert(1)
	second, _ := bits.Insert(1)
	if !first {
		t.Fatal("first insert of index 1 should report it was unset")
	}
	if second {
		t.Fatal("second insert of index 1 should report it was already set")
	}
}

func TestBitSetMemBitCount(t *testing.T) {
	bits := NewBitSetMem(8)
	bits.Insert(0)
	bits.Insert(1)
	bits.Insert(3)
	count, _ := bits.BitCount()
	if count != 3 {
		t.Fatalf("count of set bits should be 3, got %v", count)
	}
}

func TestBitSetMemSize(t *testing.T) {
	bits := NewBitSetMem(100)
	if bits.Size() != 100 {
		t.Fatalf("size should be 100, got %v", bits.Size())
	}
}
