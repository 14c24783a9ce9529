package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pfannkuchen/pkg/cache"
	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/pipeline"
	"github.com/matzehuels/pfannkuchen/pkg/runs"
)

// benchRow is the outcome of benchmarking one size.
type benchRow struct {
	n        int
	maxFlips int
	checksum int
	tasks    int
	times    []time.Duration
}

func (r benchRow) best() time.Duration { return lo.Min(r.times) }

func (r benchRow) mean() time.Duration {
	if len(r.times) == 0 {
		return 0
	}
	return lo.Sum(r.times) / time.Duration(len(r.times))
}

// benchCommand creates the bench command.
func (c *CLI) benchCommand() *cobra.Command {
	var (
		chunks  int
		workers int
		repeat  int
	)

	cmd := &cobra.Command{
		Use:   "bench [from] [to]",
		Short: "Time the computation over a range of sizes",
		Long: `Time fannkuch-redux for every n in [from, to] (default 7 to 10).

The cache is bypassed so every size is computed, and benchmark runs are
not recorded in the history. Each size runs --repeat times; the table
reports the best and mean wall time.`,
		Example: `  pfannkuchen bench
  pfannkuchen bench 8 11 --repeat 3 --workers 4`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parseBenchRange(args)
			if err != nil {
				return err
			}
			if repeat < 1 {
				return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "--repeat must be at least 1, got %d", repeat)
			}

			runner := c.newBenchRunner()
			defer runner.Close()

			logger := loggerFromContext(cmd.Context())
			spinner := newSpinnerWithContext(cmd.Context(), "Benchmarking...")
			spinner.Start()
			defer spinner.Stop()

			var rows []benchRow
			for n := from; n <= to; n++ {
				row := benchRow{n: n}
				for i := range repeat {
					spinner.Update(fmt.Sprintf("Pfannkuchen(%d) run %d/%d...", n, i+1, repeat))
					prog := newProgress(logger)
					opts := c.computeOptions(n, chunks, workers, true)
					res, err := runner.Execute(cmd.Context(), opts)
					if err != nil {
						return err
					}
					row.times = append(row.times, prog.done("benchmarked", "n", n, "run", i+1))
					row.maxFlips, row.checksum, row.tasks = res.MaxFlips, res.Checksum, res.Tasks
				}
				rows = append(rows, row)
			}
			spinner.Stop()

			fmt.Fprintln(stdout, renderBenchTable(rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&chunks, "chunks", 0, "target number of tasks (default from config, 150)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (default GOMAXPROCS)")
	cmd.Flags().IntVarP(&repeat, "repeat", "r", 1, "runs per size")

	return cmd
}

// newBenchRunner returns a runner with no cache and no history, so every
// repetition computes and only the computation is timed.
func (c *CLI) newBenchRunner() *pipeline.Runner {
	return pipeline.NewRunner(cache.NewNullCache(), nil, runs.NullStore{}, c.Logger)
}

func parseBenchRange(args []string) (from, to int, err error) {
	from, to = 7, 10
	if len(args) > 0 {
		if from, err = parseInt("from", args[0]); err != nil {
			return 0, 0, err
		}
		to = max(to, from)
	}
	if len(args) > 1 {
		if to, err = parseInt("to", args[1]); err != nil {
			return 0, 0, err
		}
	}
	if err := pkgerrors.ValidateSize(from); err != nil {
		return 0, 0, err
	}
	if err := pkgerrors.ValidateSize(to); err != nil {
		return 0, 0, err
	}
	if from > to {
		return 0, 0, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "from (%d) is greater than to (%d)", from, to)
	}
	return from, to, nil
}

func renderBenchTable(rows []benchRow) string {
	cells := lo.Map(rows, func(r benchRow, _ int) []string {
		return []string{
			strconv.Itoa(r.n),
			strconv.Itoa(r.maxFlips),
			strconv.Itoa(r.checksum),
			strconv.Itoa(r.tasks),
			formatDuration(r.best()),
			formatDuration(r.mean()),
		}
	})
	return renderTable(
		[]string{"n", "max flips", "checksum", "tasks", "best", "mean"},
		cells,
		0, 1, 2, 3, 4, 5,
	)
}
