package harness

import "github.com/roach88/pvz/internal/engine"

// Trace event types.
const (
	EventOp           = "op"
	EventNotification = "notification"
)

// TraceEvent is one entry of a scenario trace: either an operation the
// scenario performed or a notification the engine emitted.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Type     string `json:"type"`
	Op       string `json:"op,omitempty"`
	Target   string `json:"target,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Severity string `json:"severity,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect_error matched and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains operations and notifications in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the engine state after the last step.
	Final engine.Snapshot `json:"-"`

	// JournalLen is the number of rows the session journal holds at the end.
	JournalLen int `json:"journal_len"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addOp appends an operation event and returns its index so the outcome can
// be filled in once the operation returns.
func (r *Result) addOp(op, target string) int {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    int64(len(r.Trace) + 1),
		Type:   EventOp,
		Op:     op,
		Target: target,
	})
	return len(r.Trace) - 1
}

// addNotification appends a notification event.
func (r *Result) addNotification(kind, severity, subject string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:      int64(len(r.Trace) + 1),
		Type:     EventNotification,
		Kind:     kind,
		Severity: severity,
		Subject:  subject,
	})
}

// Notifications returns only the notification events of the trace.
func (r *Result) Notifications() []TraceEvent {
	var out []TraceEvent
	for _, ev := range r.Trace {
		if ev.Type == EventNotification {
			out = append(out, ev)
		}
	}
	return out
}
