package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/pvz/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Last int
}

// JournalSummary is the journal command's output.
type JournalSummary struct {
	Path    string         `json:"path"`
	Total   int            `json:"total"`
	ByKind  map[string]int `json:"by_kind"`
	Entries []store.Entry  `json:"entries"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal <path>",
		Short: "Summarize a session journal file",
		Long: `Print notification counts and the latest entries of a journal written by
a session started with --journal <path>.

Example:
  pvz simulate --journal shift.db --ticks 120
  pvz journal shift.db --last 20`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Last, "last", 10, "number of latest entries to print")

	return cmd
}

func runJournal(opts *JournalOptions, path string, cmd *cobra.Command) error {
	if path == store.MemoryDSN {
		return NewExitError(ExitCommandError, "an in-memory journal does not outlive its session")
	}

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	summary := JournalSummary{Path: path}
	if summary.Total, err = st.Len(ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if summary.ByKind, err = st.CountByKind(ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if summary.Entries, err = st.ReadLast(ctx, opts.Last); err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return out.Success(summary, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %d entries\n", path, summary.Total)

		kinds := make([]string, 0, len(summary.ByKind))
		for k := range summary.ByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-20s %d\n", k, summary.ByKind[k])
		}

		if len(summary.Entries) > 0 {
			fmt.Fprintln(w)
		}
		for _, e := range summary.Entries {
			line := fmt.Sprintf("#%d %s [%s] %s: %s", e.Seq, formatAt(e.AtMS), e.Severity, e.Title, e.Description)
			if e.ErrorCode != "" {
				line += " (" + e.ErrorCode + ")"
			}
			fmt.Fprintln(w, line)
		}
	})
}
