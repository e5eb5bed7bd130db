package domain

// Severity distinguishes informational notices from reportable failures.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// NotificationKind identifies which event produced a notification.
type NotificationKind string

const (
	KindDeliveryRequested NotificationKind = "delivery_requested"
	KindDeliveryCompleted NotificationKind = "delivery_completed"
	KindOrderIssued       NotificationKind = "order_issued"
	KindOrderNotReady     NotificationKind = "order_not_ready"
	KindOrderReturned     NotificationKind = "order_returned"
	KindOrderPlaced       NotificationKind = "order_placed"
	KindOrderNotFound     NotificationKind = "order_not_found"
	KindBreakStarted      NotificationKind = "break_started"
	KindBreakEnded        NotificationKind = "break_ended"
	KindCustomerArrived   NotificationKind = "customer_arrived"
)

// Notification is a discrete reportable event for the presentation layer.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Severity    Severity         `json:"severity"`
	Subject     string           `json:"subject,omitempty"`
}
