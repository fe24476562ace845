package order

import "time"

// Status is the fulfillment stage of an order.
type Status string

const (
	StatusCreated        Status = "CREATED"
	StatusPaymentPending Status = "PAYMENT_PENDING"
	StatusPaid           Status = "PAID"
	StatusInProcess      Status = "IN_PROCESS"
	StatusShipped        Status = "SHIPPED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// AllStatuses lists every lifecycle status; display tables are checked
// against it so a new status cannot silently fall through.
var AllStatuses = []Status{
	StatusCreated,
	StatusPaymentPending,
	StatusPaid,
	StatusInProcess,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// PaymentStatus is an independent axis from Status.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Sentiment is the externally produced tone classification.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// Order is the persistent record. ProductName and Amount are frozen at
// creation time; they are never recomputed from the cart afterwards.
type Order struct {
	ID                int
	CustomerID        int
	Status            Status
	PaymentStatus     PaymentStatus
	Sentiment         Sentiment
	AutomationEnabled bool
	ProductName       string
	Amount            float64
	TrackingID        *string
	Carrier           *string
	FeedbackRating    *int
	FeedbackText      *string
	CreatedAt         time.Time

	PaymentReminder1SentAt *time.Time
	PaymentReminder2SentAt *time.Time
	LastCustomerReplyAt    *time.Time
	ShippedAt              *time.Time
	DeliveredAt            *time.Time
}

// Summary is the wire shape used for the create response, order detail and
// the admin list. Field names follow the public API contract.
type Summary struct {
	ID                int           `json:"id"`
	UserName          string        `json:"user_name"`
	WhatsAppNumber    string        `json:"whatsapp_number"`
	Status            Status        `json:"status"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	Sentiment         Sentiment     `json:"sentiment"`
	AutomationEnabled bool          `json:"automation_enabled"`
	ProductName       string        `json:"product_name"`
	Amount            float64       `json:"amount"`
	CreatedAt         time.Time     `json:"created_at"`
	FeedbackRating    *int          `json:"feedback_rating"`
	FeedbackText      *string       `json:"feedback_text"`
}

// Badge holds the display attributes for a status.
type Badge struct {
	Label string
	Tone  string
}

var statusBadges = map[Status]Badge{
	StatusCreated:        {Label: "Created", Tone: "info"},
	StatusPaymentPending: {Label: "Payment Pending", Tone: "warning"},
	StatusPaid:           {Label: "Paid", Tone: "success"},
	StatusInProcess:      {Label: "In Process", Tone: "info"},
	StatusShipped:        {Label: "Shipped", Tone: "info"},
	StatusOutForDelivery: {Label: "Out for Delivery", Tone: "info"},
	StatusDelivered:      {Label: "Delivered", Tone: "success"},
	StatusCancelled:      {Label: "Cancelled", Tone: "danger"},
}

var paymentBadges = map[PaymentStatus]Badge{
	PaymentPending: {Label: "Pending", Tone: "warning"},
	PaymentPaid:    {Label: "Paid", Tone: "success"},
	PaymentFailed:  {Label: "Failed", Tone: "danger"},
}

// Badge returns the display attributes for the status. The mapping is
// exhaustive over AllStatuses; an unrecognized value falls back to its raw
// string so it is visible rather than blank.
func (s Status) Badge() Badge {
	if b, ok := statusBadges[s]; ok {
		return b
	}
	return Badge{Label: string(s), Tone: "neutral"}
}

func (p PaymentStatus) Badge() Badge {
	if b, ok := paymentBadges[p]; ok {
		return b
	}
	return Badge{Label: string(p), Tone: "neutral"}
}

func (s Status) Valid() bool {
	_, ok := statusBadges[s]
	return ok
}
