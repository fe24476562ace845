package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/A-Mayank/Order-FollowUp-System/internal/alert"
	"github.com/A-Mayank/Order-FollowUp-System/internal/apiclient"
	"github.com/A-Mayank/Order-FollowUp-System/internal/message"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

const defaultPageLimit = 200

// AdminAPI is the slice of the API client the dashboard needs.
type AdminAPI interface {
	AdminOrders(ctx context.Context, skip, limit int) ([]order.Summary, error)
	AdminMessages(ctx context.Context, orderID *int, skip, limit int) ([]message.Message, error)
	AdminAlerts(ctx context.Context, resolved *bool, skip, limit int) ([]alert.Alert, error)
	UpdatePayment(ctx context.Context, id int, paid bool) error
	MarkInProcess(ctx context.Context, id int) error
	MarkShipped(ctx context.Context, id int, trackingID, carrier string) error
	MarkOutForDelivery(ctx context.Context, id int) error
	MarkDelivered(ctx context.Context, id int) error
	ResolveAlert(ctx context.Context, id int) error
	CancelOrder(ctx context.Context, id int) error
	SyncMessages(ctx context.Context) (string, error)
}

var _ AdminAPI = (*apiclient.Client)(nil)

// OrdersState is the orders collection plus its own load outcome. Each
// collection fails or succeeds on its own; one broken endpoint does not
// blank the others.
type OrdersState struct {
	Orders []order.Summary
	Err    error
	Loaded bool
}

type MessagesState struct {
	Messages []message.Message
	Err      error
	Loaded   bool
}

type AlertsState struct {
	Alerts []alert.Alert
	Err    error
	Loaded bool
}

// Action is an operator action applicable to an order or alert row.
type Action string

const (
	ActionMarkPaid          Action = "Mark Paid"
	ActionMarkInProcess     Action = "Mark In Process"
	ActionMarkShipped       Action = "Mark Shipped"
	ActionMarkOutForDeliver Action = "Mark Out for Delivery"
	ActionMarkDelivered     Action = "Mark Delivered"
	ActionResolve           Action = "Resolve"
	ActionCancelOrder       Action = "Cancel Order"
)

// View holds the admin dashboard state: three collections refreshed together
// but tracked independently, plus the mutations the operator can apply.
// All exported methods are safe for concurrent use.
type View struct {
	api AdminAPI

	// Confirm is asked before destructive actions; a nil Confirm approves.
	Confirm func(prompt string) bool

	mu       sync.Mutex
	orders   OrdersState
	messages MessagesState
	alerts   AlertsState
	stopped  bool

	pollDone chan struct{}
}

func NewView(api AdminAPI) *View {
	return &View{api: api}
}

func (v *View) Orders() OrdersState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orders
}

func (v *View) Messages() MessagesState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.messages
}

func (v *View) Alerts() AlertsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alerts
}

// Refresh fetches all three collections concurrently and records each
// outcome separately. A collection that fails keeps its previous data and
// carries the error alongside.
func (v *View) Refresh(ctx context.Context) {
	var (
		wg sync.WaitGroup

		orders    []order.Summary
		msgs      []message.Message
		alertRows []alert.Alert

		ordersErr, msgsErr, alertsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		orders, ordersErr = v.api.AdminOrders(ctx, 0, defaultPageLimit)
	}()
	go func() {
		defer wg.Done()
		msgs, msgsErr = v.api.AdminMessages(ctx, nil, 0, defaultPageLimit)
	}()
	go func() {
		defer wg.Done()
		alertRows, alertsErr = v.api.AdminAlerts(ctx, nil, 0, defaultPageLimit)
	}()
	wg.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stopped {
		return
	}
	if ordersErr != nil {
		v.orders.Err = ordersErr
	} else {
		v.orders = OrdersState{Orders: orders, Loaded: true}
	}
	if msgsErr != nil {
		v.messages.Err = msgsErr
	} else {
		v.messages = MessagesState{Messages: msgs, Loaded: true}
	}
	if alertsErr != nil {
		v.alerts.Err = alertsErr
	} else {
		v.alerts = AlertsState{Alerts: alertRows, Loaded: true}
	}
}

// Start refreshes immediately and then keeps polling every interval until
// Stop is called or the context is cancelled.
func (v *View) Start(ctx context.Context, interval time.Duration) {
	v.mu.Lock()
	if v.pollDone != nil {
		// a previous poller is still running; stop it before replacing
		close(v.pollDone)
	}
	v.stopped = false
	done := make(chan struct{})
	v.pollDone = done
	v.mu.Unlock()

	v.Refresh(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				v.Refresh(ctx)
			}
		}
	}()
}

// Stop ends the poller. Refreshes already in flight will not update state
// after Stop returns.
func (v *View) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
	if v.pollDone != nil {
		close(v.pollDone)
		v.pollDone = nil
	}
}

func (v *View) MarkPaid(ctx context.Context, orderID int) error {
	return v.mutate(ctx, func() error { return v.api.UpdatePayment(ctx, orderID, true) })
}

func (v *View) MarkInProcess(ctx context.Context, orderID int) error {
	return v.mutate(ctx, func() error { return v.api.MarkInProcess(ctx, orderID) })
}

func (v *View) MarkShipped(ctx context.Context, orderID int, trackingID, carrier string) error {
	return v.mutate(ctx, func() error { return v.api.MarkShipped(ctx, orderID, trackingID, carrier) })
}

func (v *View) MarkOutForDelivery(ctx context.Context, orderID int) error {
	return v.mutate(ctx, func() error { return v.api.MarkOutForDelivery(ctx, orderID) })
}

func (v *View) MarkDelivered(ctx context.Context, orderID int) error {
	return v.mutate(ctx, func() error { return v.api.MarkDelivered(ctx, orderID) })
}

func (v *View) ResolveAlert(ctx context.Context, alertID int) error {
	return v.mutate(ctx, func() error { return v.api.ResolveAlert(ctx, alertID) })
}

// CancelOrder asks for confirmation first; declining is not an error, the
// action is simply skipped.
func (v *View) CancelOrder(ctx context.Context, orderID int) error {
	if v.Confirm != nil && !v.Confirm(fmt.Sprintf("Cancel order #%d and notify the customer?", orderID)) {
		return nil
	}
	return v.mutate(ctx, func() error { return v.api.CancelOrder(ctx, orderID) })
}

// SyncMessages pulls the latest WhatsApp history server-side, then refreshes.
func (v *View) SyncMessages(ctx context.Context) (string, error) {
	msg, err := v.api.SyncMessages(ctx)
	if err != nil {
		return "", err
	}
	v.Refresh(ctx)
	return msg, nil
}

// mutate runs the API call and refreshes every collection on success, so
// knock-on changes (new message logs, resolved alerts) show up without
// waiting for the next poll.
func (v *View) mutate(ctx context.Context, call func() error) error {
	if err := call(); err != nil {
		return err
	}
	v.Refresh(ctx)
	return nil
}

// AvailableActions maps an order row to the lifecycle actions that apply.
func AvailableActions(sum order.Summary) []Action {
	var actions []Action
	if sum.Status == order.StatusDelivered || sum.Status == order.StatusCancelled {
		return nil
	}
	if sum.PaymentStatus == order.PaymentPending {
		actions = append(actions, ActionMarkPaid)
	}
	switch sum.Status {
	case order.StatusPaid:
		actions = append(actions, ActionMarkInProcess, ActionMarkShipped)
	case order.StatusInProcess:
		actions = append(actions, ActionMarkShipped)
	case order.StatusShipped:
		actions = append(actions, ActionMarkOutForDeliver)
	case order.StatusOutForDelivery:
		actions = append(actions, ActionMarkDelivered)
	}
	return actions
}

// AlertActions maps an alert row to its actions. Cancellation requests get
// the cancel flow; every other open alert is plain resolvable. Resolved
// alerts get nothing.
func AlertActions(a alert.Alert) []Action {
	if a.Resolved {
		return nil
	}
	if a.Reason == alert.ReasonCancellationRequest {
		return []Action{ActionCancelOrder}
	}
	return []Action{ActionResolve}
}
