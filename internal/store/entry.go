package store

// Entry is one journal row.
type Entry struct {
	// Seq is the engine's logical sequence number; unique and increasing.
	Seq int64 `json:"seq"`

	// AtMS is simulated time in milliseconds since session start.
	AtMS int64 `json:"at_ms"`

	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Subject     string `json:"subject,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// ErrorCode is set when the entry reports a failed operation.
	ErrorCode string `json:"error_code,omitempty"`
}
