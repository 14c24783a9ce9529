package fannkuch

// DefaultChunks is the default target number of tasks per computation.
const DefaultChunks = 150

// Task is the half-open index range [Min, Max) of one unit of work.
type Task struct {
	Index int `json:"index"`
	Min   int `json:"min"`
	Max   int `json:"max"`
}

// Len returns the number of permutations in the task.
func (t Task) Len() int { return t.Max - t.Min }

// Partition splits [0, total) into contiguous tasks of ceil(total/chunks)
// indices each; the last task may be shorter. The tasks are pairwise
// disjoint and their union is exactly [0, total).
//
// The number of tasks returned is ceil(total/chunkSize), which can be lower
// than chunks when chunks does not divide total evenly or exceeds it.
func Partition(total, chunks int) ([]Task, error) {
	if chunks < 1 {
		return nil, ErrInvalidChunks
	}
	if total <= 0 {
		return nil, nil
	}
	size := (total + chunks - 1) / chunks
	count := (total + size - 1) / size

	tasks := make([]Task, count)
	for i := range tasks {
		lo := i * size
		tasks[i] = Task{Index: i, Min: lo, Max: min(total, lo+size)}
	}
	return tasks, nil
}
