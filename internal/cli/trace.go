package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
	"github.com/matzehuels/pfannkuchen/pkg/pipeline"
	"github.com/matzehuels/pfannkuchen/pkg/render"
)

const formatText = "text"

// traceCommand creates the trace command.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "trace <n> <index>",
		Short: "Show the flips of one permutation",
		Long: `Show how the permutation at a linear index is flipped until 0 is on top.

The index addresses permutations of size n in generation order, 0 to n!-1.
Index 0 is the identity. Formats: text (default), json, dot, svg.`,
		Example: `  pfannkuchen trace 4 23
  pfannkuchen trace 7 1234 --format svg -o trace.svg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("n", args[0])
			if err != nil {
				return err
			}
			index, err := parseInt("index", args[1])
			if err != nil {
				return err
			}

			var data []byte
			if format == formatText {
				if err := pkgerrors.ValidateIndex(n, index); err != nil {
					return err
				}
				tr, err := fannkuch.TraceAt(n, index)
				if err != nil {
					return err
				}
				data = []byte(formatTrace(tr))
			} else {
				runner, err := c.newRunner(cmd.Context(), noCache)
				if err != nil {
					return err
				}
				defer runner.Close()

				data, _, err = runner.Trace(cmd.Context(), pipeline.TraceOptions{N: n, Index: index, Format: format})
				if err != nil {
					return err
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Wrote trace of permutation %d (n=%d)", index, n)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText,
		"output format: "+strings.Join(append([]string{formatText}, render.Formats...), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the trace cache")

	return cmd
}

// formatTrace renders a trace as aligned plain text:
//
//	        3 1 0 2
//	flip 4  2 0 1 3
//	flip 3  1 0 2 3
//	flip 2  0 1 2 3
//	3 flips
func formatTrace(tr fannkuch.Trace) string {
	var b strings.Builder
	writeStack := func(label string, s []int) {
		fmt.Fprintf(&b, "%-7s %s\n", label, joinInts(s))
	}
	writeStack("", tr.Start)
	for i, s := range tr.Stacks {
		writeStack("flip "+strconv.Itoa(tr.Sizes[i]), s)
	}
	fmt.Fprintf(&b, "%d %s\n", tr.Len(), plural(tr.Len(), "flip", "flips"))
	return b.String()
}

func joinInts(s []int) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
