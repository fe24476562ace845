package alert

import "time"

// Reason says why an alert was raised.
type Reason string

const (
	ReasonNegativeSentiment   Reason = "NEGATIVE_SENTIMENT"
	ReasonNoCustomerResponse  Reason = "NO_CUSTOMER_RESPONSE"
	ReasonPaymentOverdue      Reason = "PAYMENT_OVERDUE"
	ReasonDeliveryDelayed     Reason = "DELIVERY_DELAYED"
	ReasonCancellationRequest Reason = "CANCELLATION_REQUEST"
)

// Alert is an operator-facing notification tied to an order. Alerts are
// raised by the messaging/automation side; this application only resolves
// them.
type Alert struct {
	ID          int        `json:"id"`
	OrderID     int        `json:"order_id"`
	Reason      Reason     `json:"reason"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Resolved    bool       `json:"resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
