package fannkuch

import "slices"

// CountFlips returns the number of prefix reversals needed to bring 0 to
// the front of p. p is never modified; scratch must have len(p) elements and
// is overwritten.
//
// The count starts at 1: a permutation with p[p[0]] == 0 reports 1 without
// any reversal, including the identity.
//
// The loop fuses each flip with the check for the next one: instead of
// reversing p[0..first] it reverses the interior p[1..first-1], parks first
// at its final slot and carries the displaced head value in a register.
func CountFlips(p, scratch []int) int {
	flips := 1
	first := p[0]
	if p[first] == 0 {
		return flips
	}
	copy(scratch, p)
	for {
		flips++
		for lo, hi := 1, first-1; lo < hi; lo, hi = lo+1, hi-1 {
			scratch[lo], scratch[hi] = scratch[hi], scratch[lo]
		}
		t := scratch[first]
		scratch[first] = first
		first = t
		if scratch[first] == 0 {
			return flips
		}
	}
}

// Trace records the pancake stacks produced while flipping a permutation.
type Trace struct {
	// Start is the permutation the trace begins with.
	Start []int `json:"start"`
	// Stacks holds the permutation after each flip, in order.
	Stacks [][]int `json:"stacks"`
	// Sizes holds the length of the prefix reversed by each flip.
	Sizes []int `json:"sizes"`
}

// Len returns the number of flips performed.
func (t Trace) Len() int { return len(t.Stacks) }

// NewTrace flips a copy of p by reversing p[0..p[0]] until p[0] is 0 and
// records every intermediate stack. For p[0] != 0 the trace length equals
// CountFlips(p); the identity yields an empty trace.
func NewTrace(p []int) Trace {
	cur := slices.Clone(p)
	tr := Trace{Start: slices.Clone(p)}
	for cur[0] != 0 {
		k := cur[0]
		slices.Reverse(cur[:k+1])
		tr.Stacks = append(tr.Stacks, slices.Clone(cur))
		tr.Sizes = append(tr.Sizes, k+1)
	}
	return tr
}

// TraceAt traces the permutation at linear index idx of size n.
func TraceAt(n, idx int) (Trace, error) {
	fact, err := NewFactorials(n)
	if err != nil {
		return Trace{}, err
	}
	if n == 0 {
		return Trace{}, ErrIndexOutOfRange
	}
	p := NewPermuter(fact)
	if err := p.Seed(idx); err != nil {
		return Trace{}, err
	}
	return NewTrace(p.Perm()), nil
}
