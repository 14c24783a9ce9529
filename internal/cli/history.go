package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/runs"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No runs recorded")
				printNextStep("Record one", appName+" run 10")
				return nil
			}
			fmt.Fprintln(stdout, renderHistoryTable(list))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, runs.ErrNotFound) {
				return pkgerrors.New(pkgerrors.ErrCodeRunNotFound, "run %q not found", args[0])
			}
			if err != nil {
				return err
			}

			printKeyValue("id", run.ID)
			printKeyValue("n", strconv.Itoa(run.N))
			printKeyValue("max flips", strconv.Itoa(run.MaxFlips))
			printKeyValue("checksum", strconv.Itoa(run.Checksum))
			printKeyValue("tasks", strconv.Itoa(run.Tasks))
			printKeyValue("workers", strconv.Itoa(run.Workers))
			printKeyValue("elapsed", formatDuration(run.Elapsed))
			printKeyValue("cached", strconv.FormatBool(run.CacheHit))
			printKeyValue("created", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("version", run.Build.Version)
			return nil
		},
	}
}

func renderHistoryTable(list []*runs.Run) string {
	rows := lo.Map(list, func(r *runs.Run, _ int) []string {
		cached := ""
		if r.CacheHit {
			cached = iconSuccess
		}
		return []string{
			shortID(r.ID),
			strconv.Itoa(r.N),
			strconv.Itoa(r.MaxFlips),
			strconv.Itoa(r.Checksum),
			strconv.Itoa(r.Tasks),
			formatDuration(r.Elapsed),
			cached,
			formatRelativeTime(r.CreatedAt),
		}
	})
	return renderTable(
		[]string{"id", "n", "max flips", "checksum", "tasks", "elapsed", "cached", "when"},
		rows,
		1, 2, 3, 4, 5,
	)
}

// shortID returns the first block of a UUID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
