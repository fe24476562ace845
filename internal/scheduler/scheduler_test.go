package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/A-Mayank/Order-FollowUp-System/internal/alert"
	"github.com/A-Mayank/Order-FollowUp-System/internal/config"
	"github.com/A-Mayank/Order-FollowUp-System/internal/customer"
	"github.com/A-Mayank/Order-FollowUp-System/internal/message"
	"github.com/A-Mayank/Order-FollowUp-System/internal/notify"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
	"github.com/A-Mayank/Order-FollowUp-System/internal/whatsapp"
)

type silentClient struct{ sent int }

func (s *silentClient) Send(_ context.Context, _, _ string) (string, error) {
	s.sent++
	return "SMsched", nil
}

func (s *silentClient) Recent(_ context.Context, _ int) ([]whatsapp.ProviderMessage, error) {
	return nil, nil
}

func newScheduler(orders *order.InMemoryRepository, messages *message.InMemoryRepository, alerts *alert.InMemoryRepository, wa whatsapp.Client, cfg config.ReminderConfig) *Scheduler {
	customers := customer.NewInMemoryRepository([]customer.Customer{
		{ID: 1, Name: "Asha", WhatsAppNumber: "+919999999999"},
	})
	return New(orders, customers, messages, alerts, notify.NewPolicy(wa, messages), cfg)
}

func TestFirstReminder(t *testing.T) {
	now := time.Now().UTC()
	orders := order.NewInMemoryRepository([]order.Order{
		// due: inside the (floor, cutoff] window
		{ID: 1, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			AutomationEnabled: true, CreatedAt: now.Add(-7 * time.Minute)},
		// too fresh
		{ID: 2, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			AutomationEnabled: true, CreatedAt: now.Add(-time.Minute)},
		// already paid
		{ID: 3, CustomerID: 1, Status: order.StatusPaid, PaymentStatus: order.PaymentPaid,
			AutomationEnabled: true, CreatedAt: now.Add(-7 * time.Minute)},
		// automation off
		{ID: 4, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			AutomationEnabled: false, CreatedAt: now.Add(-7 * time.Minute)},
	})
	wa := &silentClient{}
	messages := message.NewInMemoryRepository(nil)
	s := newScheduler(orders, messages, alert.NewInMemoryRepository(nil), wa, config.ReminderConfig{
		FirstAfter:  5 * time.Minute,
		SecondAfter: 24 * time.Hour,
	})

	s.run(1)

	if wa.sent != 1 {
		t.Fatalf("sent %d reminders, want 1", wa.sent)
	}
	ord, _ := orders.GetByID(1)
	if ord.PaymentReminder1SentAt == nil {
		t.Error("reminder timestamp not recorded")
	}
	if ord.Status != order.StatusPaymentPending {
		t.Errorf("status = %s, want PAYMENT_PENDING after first reminder", ord.Status)
	}

	logged, _ := messages.List(nil, 0, 10)
	if len(logged) != 1 || logged[0].Type != message.TypePaymentReminder1 {
		t.Errorf("unexpected message log %+v", logged)
	}

	// second pass must not repeat the reminder
	s.run(1)
	if wa.sent != 1 {
		t.Errorf("reminder repeated, sent = %d", wa.sent)
	}
}

func TestSecondReminder(t *testing.T) {
	now := time.Now().UTC()
	first := now.Add(-23 * time.Hour)
	orders := order.NewInMemoryRepository([]order.Order{
		{ID: 1, CustomerID: 1, Status: order.StatusPaymentPending, PaymentStatus: order.PaymentPending,
			AutomationEnabled: true, CreatedAt: now.Add(-30 * time.Hour),
			PaymentReminder1SentAt: &first},
	})
	wa := &silentClient{}
	messages := message.NewInMemoryRepository(nil)
	s := newScheduler(orders, messages, alert.NewInMemoryRepository(nil), wa, config.ReminderConfig{
		FirstAfter:  5 * time.Minute,
		SecondAfter: 24 * time.Hour,
	})

	s.run(2)

	if wa.sent != 1 {
		t.Fatalf("sent %d reminders, want 1", wa.sent)
	}
	ord, _ := orders.GetByID(1)
	if ord.PaymentReminder2SentAt == nil {
		t.Error("second reminder timestamp not recorded")
	}
	logged, _ := messages.List(nil, 0, 10)
	if len(logged) != 1 || logged[0].Type != message.TypePaymentReminder2 {
		t.Errorf("unexpected message log %+v", logged)
	}
}

func TestNoResponseCheck(t *testing.T) {
	now := time.Now().UTC()
	replied := now.Add(-time.Hour)
	orders := order.NewInMemoryRepository([]order.Order{
		// silent: old enough, never replied, one outgoing message
		{ID: 1, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			AutomationEnabled: true, CreatedAt: now.Add(-50 * time.Hour)},
		// customer did reply
		{ID: 2, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			AutomationEnabled: true, CreatedAt: now.Add(-50 * time.Hour),
			LastCustomerReplyAt: &replied},
		// nothing ever sent, so nothing to wait for
		{ID: 3, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			AutomationEnabled: true, CreatedAt: now.Add(-50 * time.Hour)},
		// too recent
		{ID: 4, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			AutomationEnabled: true, CreatedAt: now.Add(-10 * time.Hour)},
	})
	messages := message.NewInMemoryRepository(nil)
	if _, err := messages.Create(message.Message{OrderID: 1, Type: message.TypeOrderConfirmation, Content: "Order received!", SentAt: now.Add(-50 * time.Hour)}); err != nil {
		t.Fatalf("seed message failed: %v", err)
	}
	if _, err := messages.Create(message.Message{OrderID: 2, Type: message.TypeOrderConfirmation, Content: "Order received!", SentAt: now.Add(-50 * time.Hour)}); err != nil {
		t.Fatalf("seed message failed: %v", err)
	}
	alerts := alert.NewInMemoryRepository(nil)
	s := newScheduler(orders, messages, alerts, &silentClient{}, config.ReminderConfig{
		FirstAfter:      5 * time.Minute,
		SecondAfter:     24 * time.Hour,
		NoResponseAfter: 48 * time.Hour,
	})

	s.checkNoResponse()

	raised, _ := alerts.List(nil, 0, 10)
	if len(raised) != 1 {
		t.Fatalf("expected 1 alert, got %d: %+v", len(raised), raised)
	}
	if raised[0].OrderID != 1 || raised[0].Reason != alert.ReasonNoCustomerResponse {
		t.Errorf("unexpected alert %+v", raised[0])
	}
	ord, _ := orders.GetByID(1)
	if ord.AutomationEnabled {
		t.Error("silent order must have automation disabled")
	}
	for _, id := range []int{2, 3, 4} {
		other, _ := orders.GetByID(id)
		if !other.AutomationEnabled {
			t.Errorf("order %d wrongly flagged as silent", id)
		}
	}

	// automation is now off, so a second pass raises nothing new
	s.checkNoResponse()
	if raised, _ = alerts.List(nil, 0, 10); len(raised) != 1 {
		t.Errorf("alert repeated, have %d", len(raised))
	}
}
