package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pvz/internal/config"
	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/engine"
	"github.com/roach88/pvz/internal/random"
	"github.com/roach88/pvz/internal/store"
	"github.com/roach88/pvz/internal/testutil"
)

// Harness executes the flow of one scenario against one engine.
type Harness struct {
	engine *engine.Engine
	result *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh engine with an in-memory journal.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Build the configuration from defaults and scenario overrides
// 2. Create the engine with scripted or seeded randomness
// 3. Execute flow steps, checking expect_error on each
// 4. Evaluate assertions against the trace and final state
//
// The returned error reports a scenario that could not run at all; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	cfg, err := scenarioConfig(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	journal, err := store.Open(store.MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer journal.Close()

	var rnd random.Source
	if scenario.Seed != 0 {
		rnd = random.NewSeeded(scenario.Seed)
	} else {
		script := &random.Scripted{}
		script.PushFloats(scenario.Random.Floats...)
		script.PushInts(scenario.Random.Ints...)
		script.PushChoices(scenario.Random.Choices...)
		rnd = script
	}

	result := NewResult()
	eng, err := engine.New(cfg,
		engine.WithRandom(rnd),
		engine.WithIDGenerator(testutil.NewSequenceGenerator("CUST")),
		engine.WithJournal(journal),
		engine.WithNotifier(func(n domain.Notification) {
			result.addNotification(string(n.Kind), string(n.Severity), n.Subject)
		}),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{engine: eng, result: result}
	ctx := context.Background()

	for i, step := range scenario.Flow {
		h.executeStep(ctx, i, step)
	}

	result.Final = eng.Snapshot()
	result.JournalLen, err = journal.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// scenarioConfig decodes the scenario's overrides the same way a config
// file is decoded, so unknown keys and invalid values are rejected.
func scenarioConfig(s *Scenario) (config.Config, error) {
	if s.Config.Kind == 0 {
		return config.Default(), nil
	}
	data, err := yaml.Marshal(&s.Config)
	if err != nil {
		return config.Config{}, err
	}
	return config.Decode(bytes.NewReader(data))
}

// executeStep performs one flow step, records it in the trace, and checks
// its outcome against expect_error.
func (h *Harness) executeStep(ctx context.Context, index int, step FlowStep) {
	var (
		target string
		err    error
	)

	switch step.Op {
	case OpAcceptDelivery:
		idx := h.result.addOp(step.Op, "")
		h.engine.AcceptDelivery(ctx)
		h.finish(index, idx, step, nil)
		return

	case OpToggleBreak:
		idx := h.result.addOp(step.Op, "")
		h.engine.ToggleBreak(ctx)
		h.finish(index, idx, step, nil)
		return

	case OpAdvance:
		target = fmt.Sprintf("%dms", step.MS)
		idx := h.result.addOp(step.Op, target)
		h.engine.Advance(ctx, time.Duration(step.MS)*time.Millisecond)
		h.finish(index, idx, step, nil)
		return

	case OpTick:
		count := max(step.Count, 1)
		idx := h.result.addOp(step.Op, strconv.Itoa(count))
		for range count {
			h.engine.Tick(ctx)
		}
		h.finish(index, idx, step, nil)
		return

	case OpScan:
		target = step.Code
		if step.Order != "" {
			if o, ok := h.engine.Order(step.Order); ok {
				target = o.Code
			} else {
				h.result.AddError(fmt.Sprintf("flow[%d]: scan: order %s not in book", index, step.Order))
				return
			}
		}
		idx := h.result.addOp(step.Op, target)
		_, _, err = h.engine.ScanOrderByCode(ctx, target)
		h.finish(index, idx, step, err)

	case OpAdmit:
		idx := h.result.addOp(step.Op, step.Order)
		_, err = h.engine.AdmitCustomer(ctx, step.Order)
		h.finish(index, idx, step, err)

	case OpIssue:
		target = step.Customer
		if target == "" {
			if waiting := h.engine.Snapshot().Customers; len(waiting) > 0 {
				target = waiting[0].ID
			}
		}
		idx := h.result.addOp(step.Op, target)
		_, err = h.engine.IssueOrder(ctx, target)
		h.finish(index, idx, step, err)

	case OpReturn:
		idx := h.result.addOp(step.Op, step.Order)
		_, err = h.engine.ProcessReturn(ctx, step.Order)
		h.finish(index, idx, step, err)

	default:
		h.result.AddError(fmt.Sprintf("flow[%d]: unknown op %q", index, step.Op))
	}
}

// finish stamps the operation's error code on its trace event and compares
// it with the expected one.
func (h *Harness) finish(index, traceIdx int, step FlowStep, err error) {
	code := string(domain.CodeOf(err))
	if err != nil && code == "" {
		code = err.Error()
	}
	h.result.Trace[traceIdx].Error = code

	switch {
	case step.ExpectError == "" && code != "":
		h.result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error %s", index, step.Op, code))
	case step.ExpectError != "" && code != step.ExpectError:
		got := code
		if got == "" {
			got = "success"
		}
		h.result.AddError(fmt.Sprintf("flow[%d] %s: expected error %s, got %s", index, step.Op, step.ExpectError, got))
	}
}
