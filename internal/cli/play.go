package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/engine"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Speed float64
	Frame time.Duration
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Work the counter interactively",
		Long: `Start a live session and read operator commands from stdin. Simulated time
runs in the background; notifications are printed as they happen.

Commands:
  status                 time, earnings and queue
  orders [status]        list orders, optionally only pending|ready|issued
  customers              list waiting customers
  delivery               request a courier delivery
  scan <code>            scan a pickup code (shelves a pending order)
  issue <id|n>           hand a customer their order (n = position in line)
  admit <order>          seat a walk-in customer for an order
  return <order>         process a return
  break                  start or end a break
  shelf <letter>         count orders on a shelf
  wait <duration>        let simulated time pass (e.g. 3s, 1m)
  quit                   end the session

Example:
  pvz play --speed 10 --locale ru`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "simulated seconds per wall second (0 pauses the clock)")
	cmd.Flags().DurationVar(&opts.Frame, "frame", engine.DefaultFrame, "wall-clock interval between simulation steps")

	return cmd
}

// console serializes writes from the loop goroutine and the command reader.
type console struct {
	mu   sync.Mutex
	w    io.Writer
	json bool
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

func (c *console) encode(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = json.NewEncoder(c.w).Encode(v)
}

func (c *console) notify(n domain.Notification) {
	if c.json {
		c.encode(n)
		return
	}
	c.printf("[%s] %s: %s\n", n.Severity, n.Title, n.Description)
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	if opts.Speed < 0 {
		return NewExitError(ExitCommandError, "--speed must be non-negative")
	}
	if opts.Frame <= 0 {
		return NewExitError(ExitCommandError, "--frame must be positive")
	}

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	con := &console{w: cmd.OutOrStdout(), json: opts.Format == "json"}
	sess, err := openSession(cmd.Context(), opts.RootOptions, cfg, engine.WithNotifier(con.notify))
	if err != nil {
		return err
	}
	defer sess.Close()

	loopOpts := []engine.LoopOption{engine.WithFrame(opts.Frame), engine.WithSpeed(opts.Speed)}
	if opts.Speed == 0 {
		loopOpts = append(loopOpts, engine.WithTickSource(make(chan time.Time)))
	}
	loop := engine.NewLoop(sess.engine, loopOpts...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- loop.Run(ctx)
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	if !con.json {
		con.printf("Counter open. Type help for commands.\n")
	}

read:
	for {
		select {
		case <-ctx.Done():
			break read
		case line, ok := <-lines:
			if !ok {
				break read
			}
			quit, err := dispatch(ctx, loop, con, line)
			if err != nil {
				if errors.Is(err, engine.ErrLoopStopped) || errors.Is(err, context.Canceled) {
					break read
				}
				return WrapExitError(ExitFailure, "command failed", err)
			}
			if quit {
				break read
			}
		}
	}

	loop.Stop()
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "engine loop error", err)
	}

	snap := sess.engine.Snapshot()
	if con.json {
		con.encode(CLIResponse{Status: "ok", Data: snap})
	} else {
		con.printf("Session over. Income %s, issued %d, rating %.1f\n",
			sess.engine.FormatMoney(snap.Income), snap.Stats.OrdersIssued, snap.Stats.Rating)
	}
	return nil
}

// dispatch runs one command line on the loop. It reports whether the user
// asked to quit.
func dispatch(ctx context.Context, loop *engine.Loop, con *console, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	arg := func() (string, bool) {
		if len(args) == 0 {
			con.printf("usage: %s <argument>\n", name)
			return "", false
		}
		return args[0], true
	}

	var cmd engine.Command
	switch name {
	case "quit", "exit":
		return true, nil

	case "help":
		con.printf("commands: status orders customers delivery scan issue admit return break shelf wait quit\n")
		return false, nil

	case "status":
		cmd = func(ctx context.Context, e *engine.Engine) { printStatus(con, e) }

	case "orders":
		filter := ""
		if len(args) > 0 {
			filter = args[0]
		}
		cmd = func(ctx context.Context, e *engine.Engine) { printOrders(con, e.Snapshot().Orders, filter) }

	case "customers":
		cmd = func(ctx context.Context, e *engine.Engine) { printCustomers(con, e.Snapshot().Customers) }

	case "delivery":
		cmd = func(ctx context.Context, e *engine.Engine) { e.AcceptDelivery(ctx) }

	case "break":
		cmd = func(ctx context.Context, e *engine.Engine) { e.ToggleBreak(ctx) }

	case "scan":
		code, ok := arg()
		if !ok {
			return false, nil
		}
		cmd = func(ctx context.Context, e *engine.Engine) {
			o, n, err := e.ScanOrderByCode(ctx, code)
			switch {
			case err != nil:
				reportError(con, n, err)
			case n.Kind == "":
				con.printf("%s is already %s in cell %s\n", o.ID, o.Status, o.Cell)
			}
		}

	case "issue":
		who, ok := arg()
		if !ok {
			return false, nil
		}
		cmd = func(ctx context.Context, e *engine.Engine) {
			n, err := e.IssueOrder(ctx, resolveCustomer(e, who))
			if err != nil {
				reportError(con, n, err)
			}
		}

	case "admit":
		orderID, ok := arg()
		if !ok {
			return false, nil
		}
		cmd = func(ctx context.Context, e *engine.Engine) {
			if _, err := e.AdmitCustomer(ctx, orderID); err != nil {
				reportError(con, domain.Notification{}, err)
			}
		}

	case "return":
		orderID, ok := arg()
		if !ok {
			return false, nil
		}
		cmd = func(ctx context.Context, e *engine.Engine) {
			n, err := e.ProcessReturn(ctx, orderID)
			if err != nil {
				reportError(con, n, err)
			}
		}

	case "shelf":
		letter, ok := arg()
		if !ok {
			return false, nil
		}
		letter = strings.ToUpper(letter)
		cmd = func(ctx context.Context, e *engine.Engine) {
			con.printf("shelf %s: %d orders\n", letter, e.ShelfCount(letter))
		}

	case "wait":
		raw, ok := arg()
		if !ok {
			return false, nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			con.printf("wait: invalid duration %q\n", raw)
			return false, nil
		}
		cmd = func(ctx context.Context, e *engine.Engine) { e.Advance(ctx, d) }

	default:
		con.printf("unknown command %q, type help\n", name)
		return false, nil
	}

	return false, loop.Do(ctx, cmd)
}

// resolveCustomer maps a 1-based queue position to a customer ID; anything
// else is taken as an ID.
func resolveCustomer(e *engine.Engine, who string) string {
	n, err := strconv.Atoi(who)
	if err != nil {
		return who
	}
	customers := e.Snapshot().Customers
	if n < 1 || n > len(customers) {
		return who
	}
	return customers[n-1].ID
}

// reportError prints err unless the engine already emitted a notification
// describing it.
func reportError(con *console, n domain.Notification, err error) {
	if n.Kind != "" {
		return
	}
	if con.json {
		con.encode(CLIResponse{Status: "error", Error: &CLIError{Code: string(domain.CodeOf(err)), Message: err.Error()}})
		return
	}
	con.printf("! %v\n", err)
}

func printStatus(con *console, e *engine.Engine) {
	snap := e.Snapshot()
	if con.json {
		con.encode(snap)
		return
	}
	state := strings.ReplaceAll(string(snap.State), "_", " ")
	con.printf("%s (%s), shift %d | income %s, bonus %s, rating %.1f | orders %d, waiting %d, deliveries en route %d\n",
		snap.TimeLabel, state, snap.Stats.Shift,
		e.FormatMoney(snap.Income), e.FormatMoney(snap.Stats.Bonus), snap.Stats.Rating,
		len(snap.Orders), len(snap.Customers), snap.PendingDeliveries)
}

func printOrders(con *console, orders []domain.Order, filter string) {
	var shown []domain.Order
	for _, o := range orders {
		if filter == "" || string(o.Status) == filter {
			shown = append(shown, o)
		}
	}
	if con.json {
		con.encode(shown)
		return
	}
	sort.SliceStable(shown, func(i, j int) bool { return shown[i].Cell < shown[j].Cell })
	for _, o := range shown {
		con.printf("%-9s code %s  cell %-5s %-8s %-7s %s\n", o.ID, o.Code, o.Cell, o.Status, o.Type, o.Payment)
	}
	con.printf("%d orders\n", len(shown))
}

func printCustomers(con *console, customers []domain.Customer) {
	if con.json {
		con.encode(customers)
		return
	}
	if len(customers) == 0 {
		con.printf("nobody is waiting\n")
		return
	}
	for i, c := range customers {
		con.printf("%d. %s wants %s (%s)\n", i+1, c.Name, c.OrderID, c.ID)
	}
}
