package queue

import (
	"github.com/google/uuid"
)

// IDGenerator produces customer IDs.
// Implemented by UUIDv7Generator (production) and testutil.SequenceGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-derived customer IDs of the form CUST-<uuidv7>.
//
// UUIDv7 embeds a millisecond timestamp in the most significant bits, so IDs
// sort by arrival while staying unique within the same millisecond.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new customer ID.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return "CUST-" + uuid.Must(uuid.NewV7()).String()
}
