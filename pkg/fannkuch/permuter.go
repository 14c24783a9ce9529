package fannkuch

import "fmt"

// Permuter walks the permutation space of one factorial table. It owns the
// live permutation, a scratch buffer and the factorial-digit state, so each
// task or goroutine needs its own Permuter.
type Permuter struct {
	fact    Factorials
	perm    []int
	scratch []int
	count   []int
}

// NewPermuter allocates buffers sized fact.N(). The permutation starts as
// the identity with all digits zero, the same state Seed(0) produces.
func NewPermuter(fact Factorials) *Permuter {
	n := fact.N()
	p := &Permuter{
		fact:    fact,
		perm:    make([]int, n),
		scratch: make([]int, n),
		count:   make([]int, n),
	}
	for i := range p.perm {
		p.perm[i] = i
	}
	return p
}

// Perm returns the live permutation. The slice is overwritten by Seed,
// Advance and Run; callers that keep it must copy it.
func (p *Permuter) Perm() []int { return p.perm }

// Digits returns the live factorial-number-system digits, count[i] in [0, i].
func (p *Permuter) Digits() []int { return p.count }

// Seed positions the Permuter at linear index idx in O(n²), without replaying
// the idx successor steps that lead there from the identity.
//
// Each level i takes the digit d = idx / i! and rotates the prefix p[0..i]
// left by d positions.
func (p *Permuter) Seed(idx int) error {
	if idx < 0 || idx >= p.fact.Total() {
		return ErrIndexOutOfRange
	}
	perm, scratch, count := p.perm, p.scratch, p.count
	for i := range perm {
		perm[i] = i
	}
	for i := len(count) - 1; i > 0; i-- {
		d := idx / p.fact[i]
		count[i] = d
		idx %= p.fact[i]

		copy(scratch, perm[:i+1])
		for j := 0; j <= i; j++ {
			if j+d <= i {
				perm[j] = scratch[j+d]
			} else {
				perm[j] = scratch[j+d-i-1]
			}
		}
	}
	return nil
}

// Advance steps to the next permutation of the enumeration order in
// amortized O(1).
//
// The order is induced by incrementing the factorial digits: p[0] and p[1]
// swap, and every digit that overflows resets to zero and rotates the next
// longer prefix one step left. Advance must not be called on the last
// permutation (index n!-1); the carry would run past the highest digit.
func (p *Permuter) Advance() {
	perm, count := p.perm, p.count

	first := perm[1]
	perm[1] = perm[0]
	perm[0] = first

	i := 1
	count[i]++
	for count[i] > i {
		count[i] = 0
		i++
		next := perm[1]
		perm[0] = next
		for j := 1; j < i; j++ {
			perm[j] = perm[j+1]
		}
		perm[i] = first
		first = next
		count[i]++
	}
}

// Flips counts the flips of the live permutation using the Permuter's own
// scratch buffer.
func (p *Permuter) Flips() int {
	return CountFlips(p.perm, p.scratch)
}

// Run scores every permutation of t. The Permuter is reseeded at t.Min, so
// one Permuter can run many tasks in sequence. A task must satisfy
// 0 <= Min <= Max <= n!; anything else returns ErrTaskOutOfRange.
func (p *Permuter) Run(t Task) (ChunkResult, error) {
	res := ChunkResult{Task: t, MaxFlips: 1}
	if t.Min < 0 || t.Min > t.Max || t.Max > p.fact.Total() {
		return ChunkResult{}, fmt.Errorf("%w: [%d, %d) with n!=%d", ErrTaskOutOfRange, t.Min, t.Max, p.fact.Total())
	}
	if t.Len() == 0 {
		return res, nil
	}
	if err := p.Seed(t.Min); err != nil {
		return ChunkResult{}, err
	}
	for i := t.Min; ; {
		if p.perm[0] != 0 {
			flips := p.Flips()
			if flips > res.MaxFlips {
				res.MaxFlips = flips
			}
			if i%2 == 0 {
				res.Checksum += flips
			} else {
				res.Checksum -= flips
			}
		}
		i++
		if i == t.Max {
			break
		}
		p.Advance()
	}
	return res, nil
}
