package harness

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, describeEvent(event))
		}
	}

	return buf.String()
}

func describeEvent(ev TraceEvent) string {
	if ev.Type == EventOp {
		s := ev.Op
		if ev.Target != "" {
			s += " " + ev.Target
		}
		if ev.Error != "" {
			s += " -> " + ev.Error
		}
		return s
	}
	return fmt.Sprintf("  %s (%s) %s", ev.Kind, ev.Severity, ev.Subject)
}

// assertTraceContains checks that a notification of the given kind, and
// subject when set, was emitted.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Type != EventNotification || event.Kind != assertion.Kind {
			continue
		}
		if assertion.Subject == "" || event.Subject == assertion.Subject {
			return nil
		}
	}

	expected := assertion.Kind
	if assertion.Subject != "" {
		expected += " for " + assertion.Subject
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("notification %s", expected),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that notification kinds first appear in the given
// order. Kinds don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Type != EventNotification {
			continue
		}
		if positions[event.Kind] == 0 {
			positions[event.Kind] = i + 1 // 1-indexed for readability
		}
	}

	for _, kind := range assertion.Kinds {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all kinds present: %v", assertion.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Kinds); i++ {
		prev := assertion.Kinds[i-1]
		curr := assertion.Kinds[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("kinds in order: %v", assertion.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks that exactly Count notifications of Kind were emitted.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventNotification && event.Kind == assertion.Kind {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertOrder checks one order's final status.
func assertOrder(snap engine.Snapshot, assertion Assertion) error {
	actual := StatusAbsent
	for _, o := range snap.Orders {
		if o.ID == assertion.Order {
			actual = string(o.Status)
			break
		}
	}

	if actual != assertion.Status {
		return &AssertionError{
			Type:     AssertOrder,
			Expected: fmt.Sprintf("%s %s", assertion.Order, assertion.Status),
			Actual:   actual,
		}
	}
	return nil
}

// assertFields compares expected fields against actual ones using subset
// semantics: only keys present in expected are checked.
func assertFields(kind string, actual, expected map[string]any) error {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		got, ok := actual[key]
		if !ok {
			return &AssertionError{
				Type:     kind,
				Expected: fmt.Sprintf("field %s", key),
				Actual:   "no such field",
			}
		}
		if !valuesEqual(expected[key], got) {
			return &AssertionError{
				Type:     kind,
				Expected: fmt.Sprintf("%s = %v", key, expected[key]),
				Actual:   fmt.Sprintf("%s = %v", key, got),
			}
		}
	}
	return nil
}

func statsFields(s domain.Stats) map[string]any {
	return map[string]any{
		"salary":          s.Salary,
		"bonus":           s.Bonus,
		"penalties":       s.Penalties,
		"orders_issued":   s.OrdersIssued,
		"orders_accepted": s.OrdersAccepted,
		"rating":          s.Rating,
		"shift":           s.Shift,
		"income":          s.Income(),
	}
}

func stateFields(r *Result) map[string]any {
	snap := r.Final
	return map[string]any{
		"customers":          len(snap.Customers),
		"orders":             len(snap.Orders),
		"on_break":           snap.OnBreak,
		"time":               snap.Time,
		"pending_deliveries": snap.PendingDeliveries,
		"income":             snap.Income,
		"journal":            r.JournalLen,
	}
}

// floatTolerance absorbs the rounding error of accumulated rating steps.
const floatTolerance = 1e-9

// valuesEqual compares an expected value decoded from YAML with an actual
// value. Numbers compare by value regardless of their Go type.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	ef, eNum := toFloat(expected)
	af, aNum := toFloat(actual)
	if eNum || aNum {
		return eNum && aNum && math.Abs(ef-af) <= floatTolerance
	}

	return reflect.DeepEqual(expected, actual)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertStats:
			err = assertFields(AssertStats, statsFields(result.Final.Stats), assertion.Expect)
		case AssertState:
			err = assertFields(AssertState, stateFields(result), assertion.Expect)
		case AssertOrder:
			err = assertOrder(result.Final, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
