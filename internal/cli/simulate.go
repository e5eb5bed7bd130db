package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pvz/internal/autopilot"
	"github.com/roach88/pvz/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Ticks    int
	LowStock int
	Tail     int
}

// SimulateResult is the simulate command's output.
type SimulateResult struct {
	Report  autopilot.Report `json:"report"`
	Journal []store.Entry    `json:"journal,omitempty"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless session under the autopilot",
		Long: `Run a session without a front end. After every clock tick the autopilot
shelves pending orders, serves waiting customers, and requests a delivery
when ready stock runs low.

Examples:
  pvz simulate --ticks 360 --seed 42
  pvz simulate --config pvz.yaml --tail 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Ticks, "ticks", 120, "clock ticks to simulate (120 = one shift)")
	cmd.Flags().IntVar(&opts.LowStock, "low-stock", autopilot.DefaultLowStock, "request a delivery below this many ready orders")
	cmd.Flags().IntVar(&opts.Tail, "tail", 0, "also print the last N journal entries")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	if opts.Ticks < 0 {
		return NewExitError(ExitCommandError, "--ticks must be non-negative")
	}

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd.Context(), opts.RootOptions, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	pilot := autopilot.New(sess.engine,
		autopilot.WithLowStock(opts.LowStock),
		autopilot.WithLogger(opts.Logger()),
	)
	report, err := pilot.Run(cmd.Context(), opts.Ticks)
	if err != nil {
		return WrapExitError(ExitFailure, "simulation interrupted", err)
	}

	result := SimulateResult{Report: report}
	if opts.Tail > 0 {
		result.Journal, err = sess.journal.ReadLast(cmd.Context(), opts.Tail)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return out.Success(result, func(w io.Writer) {
		renderReport(w, sess, report)
		for _, e := range result.Journal {
			fmt.Fprintf(w, "  #%d %s %s: %s\n", e.Seq, formatAt(e.AtMS), e.Title, e.Description)
		}
	})
}

func renderReport(w io.Writer, sess *session, r autopilot.Report) {
	s := r.Final.Stats
	fmt.Fprintf(w, "Simulated %d ticks, now %s (shift %d)\n", r.Ticks, r.Final.TimeLabel, s.Shift)
	fmt.Fprintf(w, "Deliveries requested: %d, orders accepted: %d, shelved: %d\n", r.Deliveries, s.OrdersAccepted, r.Shelved)
	fmt.Fprintf(w, "Orders issued: %d, customers waiting: %d\n", s.OrdersIssued, len(r.Final.Customers))
	fmt.Fprintf(w, "Income: %s (salary %s + bonus %s), rating %.1f\n",
		sess.engine.FormatMoney(r.Final.Income),
		sess.engine.FormatMoney(s.Salary),
		sess.engine.FormatMoney(s.Bonus),
		s.Rating)
	if r.Failures > 0 {
		fmt.Fprintf(w, "Failed operations: %d\n", r.Failures)
	}
}

// formatAt renders simulated milliseconds as m:ss.mmm.
func formatAt(ms int64) string {
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}
