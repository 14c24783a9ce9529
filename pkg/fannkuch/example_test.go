package fannkuch_test

import (
	"fmt"

	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
)

func ExampleCompute() {
	maxFlips, checksum := fannkuch.Compute(7)
	fmt.Println(checksum)
	fmt.Printf("Pfannkuchen(%d) = %d\n", 7, maxFlips)
	// Output:
	// 228
	// Pfannkuchen(7) = 16
}

func ExampleCompute_outOfRange() {
	fmt.Println(fannkuch.Compute(13))
	fmt.Println(fannkuch.Compute(1))
	// Output:
	// -1 -1
	// 0 0
}

func ExamplePartition() {
	tasks, _ := fannkuch.Partition(24, 5)
	for _, t := range tasks {
		fmt.Printf("[%d, %d)\n", t.Min, t.Max)
	}
	// Output:
	// [0, 5)
	// [5, 10)
	// [10, 15)
	// [15, 20)
	// [20, 24)
}

func ExampleTraceAt() {
	tr, _ := fannkuch.TraceAt(4, 23)
	fmt.Println(tr.Start)
	for _, s := range tr.Stacks {
		fmt.Println(s)
	}
	// Output:
	// [3 1 0 2]
	// [2 0 1 3]
	// [1 0 2 3]
	// [0 1 2 3]
}

func ExampleNewPlan() {
	plan, _ := fannkuch.NewPlan(6, 4)
	results := make([]fannkuch.ChunkResult, len(plan.Tasks))
	for i, t := range plan.Tasks {
		results[i], _ = fannkuch.RunChunk(plan.Fact, t)
	}
	res := fannkuch.Aggregate(plan.N, results)
	fmt.Println(len(plan.Tasks), res.MaxFlips, res.Checksum)
	// Output:
	// 4 10 49
}
