// Package fannkuch implements the fannkuch-redux permutation engine: the
// maximum pancake-flip count over all permutations of n elements and the
// signed checksum over those counts.
//
// # Overview
//
// The permutation space of size n! is walked in a fixed mixed-radix order.
// Instead of generating permutations one after another from the identity,
// the space is cut into contiguous index ranges ([Task]) that can be
// processed independently:
//
//   - [Factorials]: the table 0!..n! that drives all index arithmetic
//   - [Permuter.Seed]: jumps straight to the permutation at a linear index
//   - [Permuter.Advance]: steps to the next permutation in amortized O(1)
//   - [CountFlips]: simulates the pancake flips of one permutation
//   - [Partition]: splits [0, n!) into disjoint tasks
//   - [RunChunk] and [Aggregate]: score one task, then reduce all results
//
// # Basic Usage
//
//	maxFlips, checksum := fannkuch.Compute(10)
//	// maxFlips == 38, checksum == 73196
//
// Use [NewPlan] when the tasks should be scheduled by the caller, for
// example on a worker pool:
//
//	plan, err := fannkuch.NewPlan(10, 150)
//	if err != nil {
//	    return err
//	}
//	results := make([]fannkuch.ChunkResult, len(plan.Tasks))
//	for i, t := range plan.Tasks {
//	    // safe to run concurrently
//	    if results[i], err = fannkuch.RunChunk(plan.Fact, t); err != nil {
//	        return err
//	    }
//	}
//	res := fannkuch.Aggregate(plan.N, results)
//
// # Concurrency
//
// A [Permuter] owns its permutation, scratch and digit buffers and must not
// be shared between goroutines. [Factorials] is read-only after
// construction and may be shared freely. [RunChunk] allocates its own
// [Permuter], so tasks can run on any number of goroutines; [Aggregate] is
// order-independent, so the result does not depend on scheduling.
//
// # Flip Baseline
//
// [CountFlips] returns 1 for a permutation whose terminal condition already
// holds. Published fannkuch-redux checksums depend on that baseline, so it
// must not be changed to 0.
package fannkuch
