package sequence

import "testing"

func TestNextIsMonotonic(t *testing.T) {
	s := New(100)
	if got := s.Next(); got != 101 {
		t.Fatalf("expected 101, got %d", got)
	}
	if got := s.Next(); got != 102 {
		t.Fatalf("expected 102, got %d", got)
	}
	if got := s.Current(); got != 102 {
		t.Fatalf("expected current 102, got %d", got)
	}
}

func TestConcurrentNextNoDuplicates(t *testing.T) {
	s := New(0)
	const n = 1000
	out := make(chan uint64, n)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < n/10; j++ {
				out <- s.Next()
			}
		}()
	}
	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		v := <-out
		if seen[v] {
			t.Fatalf("duplicate sequence %d", v)
		}
		seen[v] = true
	}
}
