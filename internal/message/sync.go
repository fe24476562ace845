package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/A-Mayank/Order-FollowUp-System/internal/alert"
	"github.com/A-Mayank/Order-FollowUp-System/internal/customer"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
	"github.com/A-Mayank/Order-FollowUp-System/internal/sentiment"
	"github.com/A-Mayank/Order-FollowUp-System/internal/whatsapp"
)

const syncBatchSize = 50

// SyncService pulls recent messages from the provider into the log,
// recovering anything missed while the app was offline, and applies the
// side effects of incoming customer replies: command handling, sentiment
// on the order, feedback capture and alert creation.
type SyncService struct {
	messages  Repository
	customers customer.Repository
	orders    order.Repository
	alerts    alert.Repository
	wa        whatsapp.Client
}

func NewSyncService(messages Repository, customers customer.Repository, orders order.Repository, alerts alert.Repository, wa whatsapp.Client) *SyncService {
	return &SyncService{messages: messages, customers: customers, orders: orders, alerts: alerts, wa: wa}
}

// Sync is idempotent: messages whose provider SID is already logged are
// skipped, as are messages whose sender cannot be matched to a customer
// with at least one order. Reply side effects therefore run exactly once
// per incoming message.
func (s *SyncService) Sync(ctx context.Context) (int, error) {
	provider, err := s.wa.Recent(ctx, syncBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list provider messages: %w", err)
	}

	synced := 0
	for _, pm := range provider {
		if pm.SID == "" {
			continue
		}
		exists, err := s.messages.ExistsBySID(pm.SID)
		if err != nil {
			return synced, err
		}
		if exists {
			continue
		}

		number := pm.CustomerNumber()
		if number == "" {
			continue
		}
		cust, err := s.customers.GetByNumber(number)
		if err == customer.ErrNotFound {
			continue
		}
		if err != nil {
			return synced, err
		}
		ord, err := s.orders.LatestByCustomer(cust.ID)
		if err == order.ErrNotFound {
			continue
		}
		if err != nil {
			return synced, err
		}

		body := pm.Body
		if body == "" {
			body = "[No content]"
		}

		msg := Message{
			OrderID:           ord.ID,
			Type:              inferType(body, pm.Incoming()),
			Content:           body,
			SentAt:            pm.SentAt,
			IsIncoming:        pm.Incoming(),
			WhatsAppMessageID: &pm.SID,
		}
		var cls order.Sentiment
		if pm.Incoming() {
			cls = sentiment.Classify(body)
			msg.Sentiment = &cls
		}

		if _, err := s.messages.Create(msg); err != nil {
			return synced, err
		}
		synced++

		if pm.Incoming() {
			s.processReply(ctx, ord, cust, body, cls)
		}
	}
	return synced, nil
}

// processReply applies an incoming reply to the order. Short commands get
// an immediate answer; replies to delivered orders are treated as feedback;
// everything else updates sentiment, and negative sentiment raises an alert
// and stops automation for the order.
func (s *SyncService) processReply(ctx context.Context, ord order.Order, cust customer.Customer, body string, cls order.Sentiment) {
	switch strings.ToLower(strings.TrimSpace(body)) {
	case "1", "status", "check status", "track":
		s.sendReply(ctx, ord, cust, statusSummary(ord))
		return
	case "2", "cancel", "cancel order", "cancel_order":
		s.handleCancelRequest(ctx, ord, cust)
		return
	case "3":
		s.sendReply(ctx, ord, cust, "Please type your feedback or experience with us!")
		return
	}

	now := time.Now().UTC()
	ord.LastCustomerReplyAt = &now
	ord.Sentiment = cls

	if ord.Status == order.StatusDelivered {
		ord.FeedbackRating = extractRating(body)
		ord.FeedbackText = &body
		if err := s.orders.Update(ord); err != nil {
			fmt.Printf("warning: could not record feedback for order %d: %v\n", ord.ID, err)
			return
		}
		s.sendReply(ctx, ord, cust, "Thank you so much for your feedback! It helps us improve.")
		return
	}

	if cls == order.SentimentNegative {
		ord.AutomationEnabled = false
		desc := body
		if len(desc) > 100 {
			desc = desc[:100] + "..."
		}
		if _, err := s.alerts.Create(alert.Alert{
			OrderID:     ord.ID,
			Reason:      alert.ReasonNegativeSentiment,
			Description: "Customer expressed negative sentiment: '" + desc + "'",
			CreatedAt:   now,
		}); err != nil {
			fmt.Printf("warning: could not create sentiment alert for order %d: %v\n", ord.ID, err)
		}
		fmt.Printf("negative sentiment detected for order %d, automation stopped\n", ord.ID)
	}

	if err := s.orders.Update(ord); err != nil {
		fmt.Printf("warning: could not update order %d after reply: %v\n", ord.ID, err)
	}
}

// handleCancelRequest raises a cancellation-request alert for the admin to
// act on; the order itself is never cancelled here. Orders already in
// fulfilment get a refusal instead.
func (s *SyncService) handleCancelRequest(ctx context.Context, ord order.Order, cust customer.Customer) {
	switch ord.Status {
	case order.StatusCreated, order.StatusPaymentPending, order.StatusPaid:
		s.sendReply(ctx, ord, cust, "Processing your cancellation request. We'll notify you once it's confirmed.")
		if _, err := s.alerts.Create(alert.Alert{
			OrderID:     ord.ID,
			Reason:      alert.ReasonCancellationRequest,
			Description: fmt.Sprintf("Customer requested cancellation via WhatsApp (current status: %s)", ord.Status),
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			fmt.Printf("warning: could not create cancellation alert for order %d: %v\n", ord.ID, err)
		}
	default:
		s.sendReply(ctx, ord, cust,
			fmt.Sprintf("Sorry, your order cannot be cancelled as it is already %s. Please contact support.", ord.Status))
	}
}

// sendReply sends a system answer back to the customer and logs it. Reply
// failures are warned about, never propagated; the sync keeps going.
func (s *SyncService) sendReply(ctx context.Context, ord order.Order, cust customer.Customer, text string) {
	sid, err := s.wa.Send(ctx, cust.WhatsAppNumber, text)
	if err != nil {
		fmt.Printf("warning: could not send reply for order %d: %v\n", ord.ID, err)
		return
	}
	if _, err := s.messages.Create(Message{
		OrderID:           ord.ID,
		Type:              TypeCustomerReply,
		Content:           text,
		SentAt:            time.Now().UTC(),
		IsIncoming:        false,
		WhatsAppMessageID: &sid,
	}); err != nil {
		fmt.Printf("warning: could not log reply for order %d: %v\n", ord.ID, err)
	}
}

func statusSummary(ord order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Status: %s\n", ord.Status)
	if ord.ProductName != "" {
		fmt.Fprintf(&b, "Product: %s\n", ord.ProductName)
	}
	if ord.TrackingID != nil {
		fmt.Fprintf(&b, "Tracking: %s", *ord.TrackingID)
		if ord.Carrier != nil {
			fmt.Fprintf(&b, " via %s", *ord.Carrier)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Payment: %s", ord.PaymentStatus)
	return b.String()
}

// extractRating picks the first digit 1..5 out of a feedback text; no digit
// (or a bare 0) means no rating.
func extractRating(text string) *int {
	for _, r := range text {
		if r >= '1' && r <= '5' {
			rating := int(r - '0')
			return &rating
		}
		if r == '0' {
			return nil
		}
	}
	return nil
}

// inferType guesses the message type from the body. Incoming messages are
// always customer replies; outgoing ones are matched on the phrasing the
// notification policy uses, defaulting to order confirmation.
func inferType(body string, incoming bool) Type {
	if incoming {
		return TypeCustomerReply
	}
	lowered := strings.ToLower(body)
	switch {
	case strings.Contains(lowered, "payment") && strings.Contains(lowered, "received"):
		return TypePaymentConfirmation
	case strings.Contains(lowered, "out for delivery"):
		return TypeOutForDelivery
	case strings.Contains(lowered, "shipped"):
		return TypeShipping
	case strings.Contains(lowered, "delivered"):
		return TypeDelivery
	case strings.Contains(lowered, "reminder"):
		return TypePaymentReminder1
	default:
		return TypeOrderConfirmation
	}
}
