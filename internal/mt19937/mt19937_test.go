package mt19937

import "testing"

func TestSeedIsReproducible(t *testing.T) {
	a := New(1111)
	b := New(1111)
	for i := 0; i < 1000; i++ {
		if got, want := a.Uint32(), b.Uint32(); got != want {
			t.Fatalf("draw %d: got %d, want %d", i, got, want)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1111)
	b := New(2941)
	same := true
	for i := 0; i < 8; i++ {
		if a.Uint32() != b.Uint32() {
			same = false
		}
	}
	if same {
		t.Fatal("expected seeds 1111 and 2941 to diverge within 8 draws")
	}
}

func TestInt63NonNegative(t *testing.T) {
	s := New(228)
	for i := 0; i < 1000; i++ {
		if s.Int63() < 0 {
			t.Fatal("Int63 returned a negative value")
		}
	}
}
