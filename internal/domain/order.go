package domain

import (
	"fmt"
	"regexp"
)

// OrderStatus is the lifecycle position of an order.
//
// Transitions are forward-only: pending → ready → issued. A returned order is
// removed from the book rather than marked.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusReady   OrderStatus = "ready"
	StatusIssued  OrderStatus = "issued"
)

// rank orders statuses for the forward-only check.
func (s OrderStatus) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusReady:
		return 2
	case StatusIssued:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	return s.rank() > 0
}

// CanAdvanceTo reports whether moving from s to next is a single forward step.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	return s.Valid() && next.rank() == s.rank()+1
}

// OrderType is informational only.
type OrderType string

const (
	TypePackage OrderType = "package"
	TypeBox     OrderType = "box"
)

// Payment is informational only.
type Payment string

const (
	PaymentPaid Payment = "paid"
	PaymentCOD  Payment = "cod"
)

// Shelf letters and slot range for cell labels.
const (
	ShelfLetters = "ABCDE"
	MinSlot      = 1
	MaxSlot      = 20
)

// Order is a parcel tracked through placement, shelving, and collection.
type Order struct {
	ID      string      `json:"id" yaml:"id"`
	Code    string      `json:"code" yaml:"code"`
	Cell    string      `json:"cell" yaml:"cell"`
	Status  OrderStatus `json:"status" yaml:"status"`
	Type    OrderType   `json:"type" yaml:"type"`
	Payment Payment     `json:"payment" yaml:"payment"`
}

var (
	cellPattern = regexp.MustCompile(`^[A-E]-([1-9]|1[0-9]|20)$`)
	codePattern = regexp.MustCompile(`^[0-9]{4}$`)
)

// ValidCell reports whether cell matches <A-E>-<1..20>.
func ValidCell(cell string) bool {
	return cellPattern.MatchString(cell)
}

// ValidCode reports whether code is a 4-digit scan code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// FormatCell builds a cell label from a shelf index (0-based) and slot.
func FormatCell(shelf, slot int) string {
	return fmt.Sprintf("%c-%d", ShelfLetters[shelf], slot)
}

// Shelf returns the shelf letter of the order's cell.
func (o Order) Shelf() string {
	if o.Cell == "" {
		return ""
	}
	return o.Cell[:1]
}
