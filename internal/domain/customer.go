package domain

// Mood is reserved for waiting-time escalation. Customers are created neutral
// and nothing changes the value today.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodAngry   Mood = "angry"
)

// Customer is a simulated visitor bound to exactly one ready order.
type Customer struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	OrderID string `json:"order_id" yaml:"order_id"`
	Mood    Mood   `json:"mood" yaml:"mood"`
	Waiting int    `json:"waiting" yaml:"waiting"`
}
