package fannkuch

import (
	"fmt"
	"testing"
)

func BenchmarkCompute(b *testing.B) {
	for _, n := range []int{7, 8, 9} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Compute(n)
			}
		})
	}
}

func BenchmarkSeed(b *testing.B) {
	fact, _ := NewFactorials(12)
	p := NewPermuter(fact)
	total := fact.Total()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Seed(i % total)
	}
}

func BenchmarkCountFlips(b *testing.B) {
	perm := []int{5, 9, 1, 11, 3, 7, 0, 10, 2, 8, 4, 6}
	scratch := make([]int, len(perm))
	for i := 0; i < b.N; i++ {
		CountFlips(perm, scratch)
	}
}
