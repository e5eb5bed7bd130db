package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pvz/internal/domain"
)

// Scenario is a scripted session with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config holds overrides applied over the default configuration, using
	// the config file's keys. Validated like a config file.
	Config yaml.Node `yaml:"config,omitempty"`

	// Random scripts the draws of the randomness source.
	Random RandomScript `yaml:"random,omitempty"`

	// Seed, when non-zero, replaces the scripted source with a seeded one.
	Seed uint64 `yaml:"seed,omitempty"`

	// Flow contains the operations to perform, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// RandomScript lists predetermined draws. Once a list is exhausted the
// source returns the lowest legal value.
type RandomScript struct {
	Floats  []float64 `yaml:"floats,omitempty"`
	Ints    []int     `yaml:"ints,omitempty"`
	Choices []int     `yaml:"choices,omitempty"`
}

func (r RandomScript) empty() bool {
	return len(r.Floats) == 0 && len(r.Ints) == 0 && len(r.Choices) == 0
}

// FlowStep is one operation of the flow.
type FlowStep struct {
	// Op is the operation name (see the Op constants).
	Op string `yaml:"op"`

	// MS is the simulated time for advance.
	MS int `yaml:"ms,omitempty"`

	// Count is the number of ticks for tick. Zero means one.
	Count int `yaml:"count,omitempty"`

	// Code is the pickup code for scan.
	Code string `yaml:"code,omitempty"`

	// Order is the order ID for admit and return, or the order whose code
	// scan should use.
	Order string `yaml:"order,omitempty"`

	// Customer is the customer ID for issue. Empty means the first waiting
	// customer.
	Customer string `yaml:"customer,omitempty"`

	// ExpectError is the error code the operation must fail with. Empty
	// means the operation must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Operation names.
const (
	OpAcceptDelivery = "accept_delivery"
	OpAdvance        = "advance"
	OpTick           = "tick"
	OpScan           = "scan"
	OpAdmit          = "admit"
	OpIssue          = "issue"
	OpReturn         = "return"
	OpToggleBreak    = "toggle_break"
)

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type selects the assertion (see the Assert constants).
	Type string `yaml:"type"`

	// Kind is the notification kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Subject optionally narrows trace_contains to one subject.
	Subject string `yaml:"subject,omitempty"`

	// Kinds is the expected relative order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Order and Status check one order's final status (order).
	Order  string `yaml:"order,omitempty"`
	Status string `yaml:"status,omitempty"`

	// Expect contains expected field values (stats, state). Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertStats         = "stats"
	AssertState         = "state"
	AssertOrder         = "order"
)

// StatusAbsent is the order assertion status for an order no longer in the book.
const StatusAbsent = "absent"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict fields catch typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Seed != 0 && !s.Random.empty() {
		return fmt.Errorf("seed and random are mutually exclusive")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single flow step based on its operation.
func validateStep(index int, st *FlowStep) error {
	switch st.Op {
	case "":
		return fmt.Errorf("flow[%d]: op is required", index)
	case OpAcceptDelivery, OpToggleBreak, OpIssue:
	case OpAdvance:
		if st.MS < 0 {
			return fmt.Errorf("flow[%d]: ms must be non-negative for advance", index)
		}
	case OpTick:
		if st.Count < 0 {
			return fmt.Errorf("flow[%d]: count must be non-negative for tick", index)
		}
	case OpScan:
		if (st.Code == "") == (st.Order == "") {
			return fmt.Errorf("flow[%d]: scan needs exactly one of code or order", index)
		}
	case OpAdmit, OpReturn:
		if st.Order == "" {
			return fmt.Errorf("flow[%d]: order is required for %s", index, st.Op)
		}
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", index, st.Op)
	}

	if st.ExpectError != "" && !knownErrorCode(st.ExpectError) {
		return fmt.Errorf("flow[%d]: unknown error code %q", index, st.ExpectError)
	}
	return nil
}

func knownErrorCode(code string) bool {
	switch domain.ErrorCode(code) {
	case domain.ErrCodeNotFound, domain.ErrCodeOrderNotReady, domain.ErrCodeInvalidState,
		domain.ErrCodeQueueFull, domain.ErrCodeOrderClaimed:
		return true
	}
	return false
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertStats, AssertState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
	case AssertOrder:
		if a.Order == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: order and status are required for order", index)
		}
		if a.Status != StatusAbsent && !domain.OrderStatus(a.Status).Valid() {
			return fmt.Errorf("assertions[%d]: unknown order status %q", index, a.Status)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
