package message

import (
	"time"

	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

// Type tags what a logged message was for.
type Type string

const (
	TypeOrderConfirmation   Type = "ORDER_CONFIRMATION"
	TypePaymentReminder1    Type = "PAYMENT_REMINDER_1"
	TypePaymentReminder2    Type = "PAYMENT_REMINDER_2"
	TypeInProcess           Type = "IN_PROCESS_NOTIFICATION"
	TypeShipping            Type = "SHIPPING_NOTIFICATION"
	TypeOutForDelivery      Type = "OUT_FOR_DELIVERY_NOTIFICATION"
	TypeDelivery            Type = "DELIVERY_NOTIFICATION"
	TypePaymentConfirmation Type = "PAYMENT_CONFIRMATION"
	TypeFeedbackRequest     Type = "FEEDBACK_REQUEST"
	TypeCustomerReply       Type = "CUSTOMER_REPLY"
)

// Message is one WhatsApp message sent or received for an order.
type Message struct {
	ID                int              `json:"id"`
	OrderID           int              `json:"order_id"`
	Type              Type             `json:"message_type"`
	Content           string           `json:"message_content"`
	SentAt            time.Time        `json:"sent_at"`
	IsIncoming        bool             `json:"is_incoming"`
	Sentiment         *order.Sentiment `json:"sentiment"`
	WhatsAppMessageID *string          `json:"-"`
}
