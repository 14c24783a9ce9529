package fannkuch

// MaxN is the largest supported size. 13! overflows a 32-bit signed integer
// and the index arithmetic relies on exact factorials.
const MaxN = 12

// Factorials holds 0!..n! where n is len-1.
type Factorials []int

// NewFactorials builds the table for n. It returns ErrOutOfRange when n < 0
// or n > MaxN.
func NewFactorials(n int) (Factorials, error) {
	if n < 0 || n > MaxN {
		return nil, ErrOutOfRange
	}
	f := make(Factorials, n+1)
	f[0] = 1
	for i := 1; i <= n; i++ {
		f[i] = f[i-1] * i
	}
	return f, nil
}

// N returns the permutation size the table was built for.
func (f Factorials) N() int { return len(f) - 1 }

// Total returns n!, the number of permutations.
func (f Factorials) Total() int { return f[len(f)-1] }
