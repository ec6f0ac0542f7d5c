package prng

import "testing"

func TestHash(t *testing.T) {
	if Hash("test") != Hash("test") {
		t.Error("Hash should be deterministic")
	}
	if Hash("hello") == Hash("world") {
		t.Error("different strings should produce different hashes")
	}
	if Hash("ab") == Hash("ba") {
		t.Error("Hash should be order-sensitive")
	}
	if Hash("slug-1") == Hash("slug-2") {
		t.Error("single trailing difference should change the hash")
	}
}

func TestHashDistinctOverManySlugs(t *testing.T) {
	seen := make(map[uint32]string)
	for i := 0; i < 2000; i++ {
		s := "example-article-" + string(rune('a'+i%26)) + string(rune('a'+i/26%26)) + string(rune('a'+i/676))
		h := Hash(s)
		if prev, ok := seen[h]; ok && prev != s {
			t.Fatalf("collision between %q and %q", prev, s)
		}
		seen[h] = s
	}
}

func TestRandomRange(t *testing.T) {
	r := New(12345)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want [0,1)", v)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d: %v != %v", i, x, y)
		}
	}
}

func TestRandomSeedsDiffer(t *testing.T) {
	a, b := New(1), New(2)
	same := 0
	for i := 0; i < 10; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 10 {
		t.Error("different seeds should produce different sequences")
	}
}

func TestIntn(t *testing.T) {
	r := New(7)
	counts := make([]int, 3)
	for i := 0; i < 3000; i++ {
		n := r.Intn(3)
		if n < 0 || n >= 3 {
			t.Fatalf("Intn(3) = %d", n)
		}
		counts[n]++
	}
	for i, c := range counts {
		if c < 800 {
			t.Errorf("bucket %d underfilled: %d", i, c)
		}
	}
}

func TestZeroValueUsable(t *testing.T) {
	var r Random
	if got, want := r.Float64(), New(0).Float64(); got != want {
		t.Errorf("zero value = %v, want %v", got, want)
	}
}
