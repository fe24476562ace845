package admin

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/A-Mayank/Order-FollowUp-System/internal/alert"
	"github.com/A-Mayank/Order-FollowUp-System/internal/config"
	"github.com/A-Mayank/Order-FollowUp-System/internal/customer"
	"github.com/A-Mayank/Order-FollowUp-System/internal/message"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

type fixtures struct {
	app      *fiber.App
	orders   *order.InMemoryRepository
	alerts   *alert.InMemoryRepository
	messages *message.InMemoryRepository
}

func setup(t *testing.T, seedOrders []order.Order, seedAlerts []alert.Alert, seedMessages []message.Message) fixtures {
	t.Helper()
	orders := order.NewInMemoryRepository(seedOrders)
	customers := customer.NewInMemoryRepository([]customer.Customer{
		{ID: 1, Name: "Asha", WhatsAppNumber: "+919999999999"},
	})
	alerts := alert.NewInMemoryRepository(seedAlerts)
	messages := message.NewInMemoryRepository(seedMessages)

	svc := order.NewService(orders, customers, nil)
	h := NewHandler(svc, messages, nil, alerts, config.AdminConfig{
		JWTSecret: "test-secret",
		Password:  "hunter2",
	})

	a := fiber.New()
	h.RegisterPublicRoutes(a)
	h.RegisterProtectedRoutes(a)
	return fixtures{app: a, orders: orders, alerts: alerts, messages: messages}
}

func TestSignIn(t *testing.T) {
	f := setup(t, nil, nil, nil)

	body, _ := json.Marshal(map[string]string{"password": "hunter2"})
	req := httptest.NewRequest("POST", "/api/admin/sign-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var got map[string]string
	json.NewDecoder(res.Body).Decode(&got)
	if got["token"] == "" {
		t.Error("expected a token on successful sign-in")
	}

	body, _ = json.Marshal(map[string]string{"password": "wrong"})
	req = httptest.NewRequest("POST", "/api/admin/sign-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ = f.app.Test(req, -1)
	if res.StatusCode != 401 {
		t.Fatalf("expected 401 for wrong password, got %d", res.StatusCode)
	}
}

func TestListOrders(t *testing.T) {
	f := setup(t, []order.Order{
		{ID: 1, CustomerID: 1, Status: order.StatusCreated, PaymentStatus: order.PaymentPending,
			Sentiment: order.SentimentUnknown, ProductName: "Rohu", Amount: 300,
			CreatedAt: time.Now().UTC().Add(-time.Hour)},
		{ID: 2, CustomerID: 1, Status: order.StatusShipped, PaymentStatus: order.PaymentPaid,
			Sentiment: order.SentimentPositive, ProductName: "Hilsa", Amount: 1250,
			CreatedAt: time.Now().UTC()},
	}, nil, nil)

	req := httptest.NewRequest("GET", "/api/admin/orders", nil)
	res, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var got []order.Summary
	json.NewDecoder(res.Body).Decode(&got)
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	// newest first
	if got[0].ID != 2 {
		t.Errorf("expected order 2 first, got %d", got[0].ID)
	}
	if got[0].UserName != "Asha" {
		t.Errorf("customer not joined: %+v", got[0])
	}
}

func TestResolveAlert(t *testing.T) {
	f := setup(t, nil, []alert.Alert{
		{ID: 1, OrderID: 1, Reason: alert.ReasonNegativeSentiment, Resolved: false, CreatedAt: time.Now().UTC()},
	}, nil)

	req := httptest.NewRequest("PATCH", "/api/admin/alerts/1/resolve", nil)
	res, _ := f.app.Test(req, -1)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	alerts, _ := f.alerts.List(nil, 0, 10)
	if !alerts[0].Resolved || alerts[0].ResolvedAt == nil {
		t.Errorf("alert not resolved: %+v", alerts[0])
	}

	req = httptest.NewRequest("PATCH", "/api/admin/alerts/99/resolve", nil)
	res, _ = f.app.Test(req, -1)
	if res.StatusCode != 404 {
		t.Fatalf("expected 404 for missing alert, got %d", res.StatusCode)
	}
}

func TestCancelOrder(t *testing.T) {
	f := setup(t, []order.Order{
		{ID: 5, CustomerID: 1, Status: order.StatusPaid, PaymentStatus: order.PaymentPaid,
			AutomationEnabled: true, CreatedAt: time.Now().UTC()},
	}, []alert.Alert{
		{ID: 1, OrderID: 5, Reason: alert.ReasonCancellationRequest, Resolved: false, CreatedAt: time.Now().UTC()},
		{ID: 2, OrderID: 5, Reason: alert.ReasonNegativeSentiment, Resolved: false, CreatedAt: time.Now().UTC()},
		{ID: 3, OrderID: 6, Reason: alert.ReasonCancellationRequest, Resolved: false, CreatedAt: time.Now().UTC()},
	}, nil)

	req := httptest.NewRequest("PATCH", "/api/admin/orders/5/cancel", nil)
	res, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var got struct {
		Message        string `json:"message"`
		OrderID        int    `json:"order_id"`
		AlertsResolved int    `json:"alerts_resolved"`
	}
	json.NewDecoder(res.Body).Decode(&got)
	if got.AlertsResolved != 1 {
		t.Errorf("alerts_resolved = %d, want 1", got.AlertsResolved)
	}

	ord, _ := f.orders.GetByID(5)
	if ord.Status != order.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", ord.Status)
	}
	if ord.AutomationEnabled {
		t.Error("automation should be off after cancel")
	}

	// only the cancellation alert for this order is resolved
	alerts, _ := f.alerts.List(nil, 0, 10)
	for _, a := range alerts {
		switch a.ID {
		case 1:
			if !a.Resolved {
				t.Error("cancellation alert not resolved")
			}
		default:
			if a.Resolved {
				t.Errorf("alert %d should not have been resolved", a.ID)
			}
		}
	}

	// cancelling again is a client error
	req = httptest.NewRequest("PATCH", "/api/admin/orders/5/cancel", nil)
	res, _ = f.app.Test(req, -1)
	if res.StatusCode != 400 {
		t.Fatalf("expected 400 on double cancel, got %d", res.StatusCode)
	}
	var body map[string]any
	json.NewDecoder(res.Body).Decode(&body)
	if body["detail"] != "Order is already cancelled" {
		t.Errorf("detail = %v", body["detail"])
	}
}

// brokenAlerts fails alert resolution while leaving the rest of the
// repository working.
type brokenAlerts struct {
	alert.Repository
}

func (b brokenAlerts) ResolveByOrderAndReason(int, alert.Reason, time.Time) (int, error) {
	return 0, errors.New("connection reset")
}

func TestCancelOrderAlertResolutionFailure(t *testing.T) {
	orders := order.NewInMemoryRepository([]order.Order{
		{ID: 5, CustomerID: 1, Status: order.StatusPaid, PaymentStatus: order.PaymentPaid,
			AutomationEnabled: true, CreatedAt: time.Now().UTC()},
	})
	customers := customer.NewInMemoryRepository([]customer.Customer{
		{ID: 1, Name: "Asha", WhatsAppNumber: "+919999999999"},
	})
	svc := order.NewService(orders, customers, nil)
	h := NewHandler(svc, message.NewInMemoryRepository(nil), nil,
		brokenAlerts{alert.NewInMemoryRepository(nil)}, config.AdminConfig{
			JWTSecret: "test-secret",
			Password:  "hunter2",
		})
	a := fiber.New()
	h.RegisterProtectedRoutes(a)

	req := httptest.NewRequest("PATCH", "/api/admin/orders/5/cancel", nil)
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	// the cancel itself succeeded, so the operator must not see an error
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var got map[string]any
	json.NewDecoder(res.Body).Decode(&got)
	if got["warning"] == nil {
		t.Error("expected a warning about unresolved alerts")
	}
	if got["alerts_resolved"] != float64(0) {
		t.Errorf("alerts_resolved = %v, want 0", got["alerts_resolved"])
	}

	ord, _ := orders.GetByID(5)
	if ord.Status != order.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", ord.Status)
	}
}

func TestListAlertsFilter(t *testing.T) {
	f := setup(t, nil, []alert.Alert{
		{ID: 1, OrderID: 1, Reason: alert.ReasonPaymentOverdue, Resolved: true, CreatedAt: time.Now().UTC()},
		{ID: 2, OrderID: 2, Reason: alert.ReasonCancellationRequest, Resolved: false, CreatedAt: time.Now().UTC()},
	}, nil)

	req := httptest.NewRequest("GET", "/api/admin/alerts?resolved=false", nil)
	res, _ := f.app.Test(req, -1)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var got []alert.Alert
	json.NewDecoder(res.Body).Decode(&got)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("unexpected filter result %+v", got)
	}
}

func TestListMessagesFilter(t *testing.T) {
	f := setup(t, nil, nil, []message.Message{
		{ID: 1, OrderID: 1, Type: message.TypeOrderConfirmation, SentAt: time.Now().UTC()},
		{ID: 2, OrderID: 2, Type: message.TypeCustomerReply, IsIncoming: true, SentAt: time.Now().UTC()},
	})

	req := httptest.NewRequest("GET", "/api/admin/messages?order_id=2", nil)
	res, _ := f.app.Test(req, -1)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var got []message.Message
	json.NewDecoder(res.Body).Decode(&got)
	if len(got) != 1 || got[0].OrderID != 2 {
		t.Errorf("unexpected filter result %+v", got)
	}
}
