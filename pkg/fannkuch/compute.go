package fannkuch

import "github.com/samber/lo"

// Result is the aggregated outcome for one n.
type Result struct {
	N        int `json:"n"`
	MaxFlips int `json:"max_flips"`
	Checksum int `json:"checksum"`
}

// Plan is a validated computation: the factorial table and the tasks that
// cover [0, n!). Trivial sizes (n <= 1) carry no tasks.
type Plan struct {
	N     int
	Fact  Factorials
	Tasks []Task
}

// NewPlan validates n and the chunk target and partitions the index space.
func NewPlan(n, chunks int) (*Plan, error) {
	if n < 0 || n > MaxN {
		return nil, ErrOutOfRange
	}
	if chunks < 1 {
		return nil, ErrInvalidChunks
	}
	if n <= 1 {
		return &Plan{N: n}, nil
	}
	fact, err := NewFactorials(n)
	if err != nil {
		return nil, err
	}
	tasks, err := Partition(fact.Total(), chunks)
	if err != nil {
		return nil, err
	}
	return &Plan{N: n, Fact: fact, Tasks: tasks}, nil
}

// Trivial reports whether the plan short-circuits to (0, 0).
func (p *Plan) Trivial() bool { return len(p.Tasks) == 0 }

// Permutations returns the number of permutations the plan enumerates.
func (p *Plan) Permutations() int {
	if p.Trivial() {
		return 0
	}
	return p.Fact.Total()
}

// Aggregate reduces chunk results: the maximum of the local maxima and the
// sum of the local checksums. Both reductions are order-independent. An
// empty input yields (0, 0).
func Aggregate(n int, results []ChunkResult) Result {
	return Result{
		N:        n,
		MaxFlips: lo.Max(lo.Map(results, func(r ChunkResult, _ int) int { return r.MaxFlips })),
		Checksum: lo.SumBy(results, func(r ChunkResult) int { return r.Checksum }),
	}
}

// ComputeChunks runs every task of a plan sequentially on one Permuter and
// aggregates the results.
func ComputeChunks(n, chunks int) (Result, error) {
	plan, err := NewPlan(n, chunks)
	if err != nil {
		return Result{N: n, MaxFlips: -1, Checksum: -1}, err
	}
	if plan.Trivial() {
		return Result{N: n}, nil
	}
	perm := NewPermuter(plan.Fact)
	results := make([]ChunkResult, len(plan.Tasks))
	for i, t := range plan.Tasks {
		if results[i], err = perm.Run(t); err != nil {
			return Result{N: n, MaxFlips: -1, Checksum: -1}, err
		}
	}
	return Aggregate(n, results), nil
}

// Compute returns the maximum flip count and the checksum for n using
// DefaultChunks tasks. It never fails: n outside [0, 12] yields (-1, -1) and
// n in {0, 1} yields (0, 0).
func Compute(n int) (maxFlips, checksum int) {
	res, err := ComputeChunks(n, DefaultChunks)
	if err != nil {
		return -1, -1
	}
	return res.MaxFlips, res.Checksum
}
