package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusReady, true},
		{StatusReady, StatusIssued, true},
		{StatusPending, StatusIssued, false},
		{StatusIssued, StatusReady, false},
		{StatusReady, StatusPending, false},
		{StatusIssued, StatusIssued, false},
		{OrderStatus("lost"), StatusReady, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestValidCell(t *testing.T) {
	for _, cell := range []string{"A-1", "E-20", "C-9", "B-10"} {
		assert.True(t, ValidCell(cell), cell)
	}
	for _, cell := range []string{"F-1", "A-0", "A-21", "a-1", "A1", "A-01", ""} {
		assert.False(t, ValidCell(cell), cell)
	}
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("1000"))
	assert.True(t, ValidCode("9999"))
	assert.False(t, ValidCode("999"))
	assert.False(t, ValidCode("12345"))
	assert.False(t, ValidCode("12a4"))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "A-1", FormatCell(0, 1))
	assert.Equal(t, "E-20", FormatCell(4, 20))
	assert.Equal(t, "C", Order{Cell: FormatCell(2, 7)}.Shelf())
	assert.Equal(t, "", Order{}.Shelf())
}

func TestStats_Income(t *testing.T) {
	s := Stats{Salary: 25000, Bonus: 180, Penalties: 30}
	assert.Equal(t, 25150, s.Income())
}

func TestError_Predicates(t *testing.T) {
	notFound := fmt.Errorf("scan: %w", NewNotFound("order", "1234"))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsOrderNotReady(notFound))
	assert.Equal(t, ErrCodeNotFound, CodeOf(notFound))

	assert.True(t, IsOrderNotReady(NewOrderNotReady("ORD-1", StatusPending)))
	assert.True(t, IsInvalidState(NewInvalidState("ORD-1", "bad")))
	assert.True(t, IsQueueFull(NewQueueFull(3)))
	assert.True(t, IsOrderClaimed(NewOrderClaimed("ORD-1", "CUST-1")))
	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: order not found (1234)", NewNotFound("order", "1234").Error())
	assert.Equal(t, "ORDER_NOT_READY: order is pending, not ready (ORD-7)",
		NewOrderNotReady("ORD-7", StatusPending).Error())
	assert.Equal(t, "QUEUE_FULL: queue is at capacity (3)", NewQueueFull(3).Error())
}
