package filters

import (
	"testing"
)

func TestVacuumFilterNoFalseNegatives(t *testing.T) {
	vf := NewVacuumFilter(10000, 8, 500)
	var values [][]byte
	for i := 0; i < 10000; i++ {
		values = append(values, intKey(i))
	}
	if err := vf.Build(values); err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	for _, v := range values {
		if !vf.Find(v) {
			t.Fatalf("false negative for %v", v)
		}
	}
}

func TestVacuumFilterAlternateBucketSymmetrySmallTable(t *testing.T) {
	vf := NewVacuumFilter(1000, 8, 500)
	if vf.bucketCount > vacuumThreshold {
		t.Skip("this table landed in the large-table regime")
	}
	for fp := uint32(0); fp < uint32(vf.maxFingerprint); fp += 5 {
		for bucket := uint64(0); bucket < vf.bucketCount; bucket += 7 {
			alt := vf.alternateBucket(bucket, fp)
			if alt >= vf.bucketCount {
				t.Fatalf("alternate bucket %d out of range [0, %d)", alt, vf.bucketCount)
			}
			back := vf.alternateBucket(alt, fp)
			if back != bucket {
				t.Fatalf("alternate(alternate(%d, %d)) = %d, want %d", bucket, fp, back, bucket)
			}
		}
	}
}

func TestVacuumFilterAlternateRangesSelectionShape(t *testing.T) {
	ranges := alternateRangesSelection(1_000_000, 4)
	if len(ranges) != 4 {
		t.Fatalf("expected 4 alternate ranges, got %d", len(ranges))
	}
	for i, r := range ranges {
		if r == 0 || r&(r-1) != 0 {
			t.Fatalf("alternate range %d (%d) should be a power of two", i, r)
		}
	}
}
