package fannkuch

// ChunkResult is the score of one task.
type ChunkResult struct {
	Task     Task `json:"task"`
	MaxFlips int  `json:"max_flips"`
	Checksum int  `json:"checksum"`
}

// RunChunk scores task t on a freshly allocated Permuter. It shares nothing
// mutable with other calls, so any number of tasks may run concurrently
// against the same fact. Tasks reaching outside [0, n!] return
// ErrTaskOutOfRange.
func RunChunk(fact Factorials, t Task) (ChunkResult, error) {
	return NewPermuter(fact).Run(t)
}
