package filters

import "testing"

func TestXorFilterNoFalseNegatives(t *testing.T) {
	xf := NewXorFilter(8, 1.23, 32)
	var values [][]byte
	for i := 0; i < 10000; i++ {
		values = append(values, intKey(i))
	}
	if err := xf.Build(values); err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	for _, v := range values {
		if !xf.Find(v) {
			t.Fatalf("false negative for %v", v)
		}
	}
}

func TestXorFilterReportedSizes(t *testing.T) {
	xf := NewXorFilter(8, 1.23, 32)
	xf.Build([][]byte{intKey(1), intKey(2), intKey(3)})
	size, ok := xf.GetHashTableSizeBits()
	if !ok || size == 0 {
		t.Fatalf("expected nonzero table size, got %v", size)
	}
	used, ok := xf.GetUsedSpaceBits()
	if !ok || used == 0 {
		t.Fatalf("expected nonzero used space after build, got %v", used)
	}
}

func TestXorFilterEmptyBuild(t *testing.T) {
	xf := NewXorFilter(8, 1.23, 32)
	if err := xf.Build(nil); err != nil {
		t.Fatalf("unexpected error building an empty filter: %v", err)
	}
}
