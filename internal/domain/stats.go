package domain

// Stats is a read-only copy of the economy ledger.
type Stats struct {
	Salary         int     `json:"salary"`
	Bonus          int     `json:"bonus"`
	Penalties      int     `json:"penalties"`
	OrdersIssued   int     `json:"orders_issued"`
	OrdersAccepted int     `json:"orders_accepted"`
	Rating         float64 `json:"rating"`
	Shift          int     `json:"shift"`
}

// Income is salary plus bonus minus penalties. Always derived, never stored.
func (s Stats) Income() int {
	return s.Salary + s.Bonus - s.Penalties
}
