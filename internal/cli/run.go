package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/pipeline"
)

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		chunks   int
		workers  int
		noCache  bool
		refresh  bool
		progress bool
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "run <n>",
		Short: "Compute the maximum flip count and checksum for size n",
		Long: `Compute fannkuch-redux for permutations of size n (0 to 12).

Prints the checksum on the first line and "Pfannkuchen(n) = <max flips>" on
the second. Sizes outside 0..12 print -1 for both values. A negative size
must follow "--" so it is not read as a flag.`,
		Example: `  pfannkuchen run 10
  pfannkuchen run 12 --workers 8 --progress
  pfannkuchen run 9 --chunks 1 --refresh
  pfannkuchen run -q -- -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("n", args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.computeOptions(n, chunks, workers, refresh)

			var res *pipeline.Result
			switch {
			case progress && opts.InRange() && n > 1:
				res, err = runWithProgress(cmd.Context(), runner, opts)
			case quiet:
				res, err = runner.Execute(cmd.Context(), opts)
			default:
				spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Computing Pfannkuchen(%d)...", n))
				spinner.Start()
				res, err = runner.Execute(cmd.Context(), opts)
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Checksum)
			fmt.Fprintf(out, "Pfannkuchen(%d) = %d\n", res.N, res.MaxFlips)

			if !quiet && !res.OutOfRange {
				printRunStats(res.Tasks, res.Workers, res.Stats.Elapsed, res.CacheHit)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&chunks, "chunks", 0, "target number of tasks (default from config, 150)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute and overwrite the cached result")
	cmd.Flags().BoolVarP(&progress, "progress", "p", false, "show live chunk progress")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the two result lines")

	return cmd
}

// parseInt parses a positional integer argument.
func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, s)
	}
	return v, nil
}
