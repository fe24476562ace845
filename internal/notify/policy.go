package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/A-Mayank/Order-FollowUp-System/internal/customer"
	"github.com/A-Mayank/Order-FollowUp-System/internal/message"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
	"github.com/A-Mayank/Order-FollowUp-System/internal/whatsapp"
)

const sendTimeout = 30 * time.Second

// Policy decides what to tell the customer at each lifecycle event, sends
// it over WhatsApp and logs it. Delivery problems are printed, never
// propagated: a failed notification must not fail the order operation.
type Policy struct {
	wa       whatsapp.Client
	messages message.Repository
}

func NewPolicy(wa whatsapp.Client, messages message.Repository) *Policy {
	return &Policy{wa: wa, messages: messages}
}

func (p *Policy) OrderConfirmation(ord order.Order, cust customer.Customer) {
	text := fmt.Sprintf("Hi %s! Your order #%d for %s has been confirmed. Total: ₹%.0f. We'll keep you posted!",
		cust.Name, ord.ID, ord.ProductName, ord.Amount)
	p.send(ord, cust, message.TypeOrderConfirmation, text)
}

func (p *Policy) PaymentConfirmation(ord order.Order, cust customer.Customer) {
	text := fmt.Sprintf("Hi %s, payment received for order #%d. We're getting it ready!", cust.Name, ord.ID)
	p.send(ord, cust, message.TypePaymentConfirmation, text)
}

func (p *Policy) InProcess(ord order.Order, cust customer.Customer) {
	text := fmt.Sprintf("Hi %s, your order #%d is being packed right now.", cust.Name, ord.ID)
	p.send(ord, cust, message.TypeInProcess, text)
}

func (p *Policy) Shipped(ord order.Order, cust customer.Customer) {
	text := fmt.Sprintf("Good news %s, your order #%d has shipped!", cust.Name, ord.ID)
	if ord.TrackingID != nil {
		carrier := "our courier"
		if ord.Carrier != nil {
			carrier = *ord.Carrier
		}
		text += fmt.Sprintf(" Track it with %s using %s.", carrier, *ord.TrackingID)
	}
	p.send(ord, cust, message.TypeShipping, text)
}

func (p *Policy) OutForDelivery(ord order.Order, cust customer.Customer) {
	text := fmt.Sprintf("Hi %s, order #%d is out for delivery. Keep your phone handy!", cust.Name, ord.ID)
	p.send(ord, cust, message.TypeOutForDelivery, text)
}

func (p *Policy) Delivered(ord order.Order, cust customer.Customer) {
	text := fmt.Sprintf("Hi %s, order #%d has been delivered. Enjoy!", cust.Name, ord.ID)
	p.send(ord, cust, message.TypeDelivery, text)

	feedback := fmt.Sprintf("We'd love to hear how it was, %s. Reply with a rating out of 5 and any comments.", cust.Name)
	p.send(ord, cust, message.TypeFeedbackRequest, feedback)
}

func (p *Policy) Cancelled(ord order.Order, cust customer.Customer) {
	text := "✅ Your order has been successfully cancelled. If you have any questions, feel free to reach out!"
	p.send(ord, cust, message.TypeOrderConfirmation, text)
}

// PaymentReminder sends the n-th payment reminder (1 or 2).
func (p *Policy) PaymentReminder(ord order.Order, cust customer.Customer, n int) {
	typ := message.TypePaymentReminder1
	text := fmt.Sprintf("Hi %s, a quick reminder that payment of ₹%.0f for order #%d is still pending.",
		cust.Name, ord.Amount, ord.ID)
	if n == 2 {
		typ = message.TypePaymentReminder2
		text = fmt.Sprintf("Hi %s, order #%d is still awaiting payment of ₹%.0f. It will be held until we hear from you.",
			cust.Name, ord.ID, ord.Amount)
	}
	p.send(ord, cust, typ, text)
}

func (p *Policy) send(ord order.Order, cust customer.Customer, typ message.Type, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	sid, err := p.wa.Send(ctx, cust.WhatsAppNumber, text)
	if err != nil {
		fmt.Printf("warning: could not send %s for order %d: %v\n", typ, ord.ID, err)
		return
	}

	if _, err := p.messages.Create(message.Message{
		OrderID:           ord.ID,
		Type:              typ,
		Content:           text,
		SentAt:            time.Now().UTC(),
		IsIncoming:        false,
		WhatsAppMessageID: &sid,
	}); err != nil {
		fmt.Printf("warning: could not log %s for order %d: %v\n", typ, ord.ID, err)
	}
}
