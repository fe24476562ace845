package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron"

	"github.com/A-Mayank/Order-FollowUp-System/internal/alert"
	"github.com/A-Mayank/Order-FollowUp-System/internal/config"
	"github.com/A-Mayank/Order-FollowUp-System/internal/customer"
	"github.com/A-Mayank/Order-FollowUp-System/internal/message"
	"github.com/A-Mayank/Order-FollowUp-System/internal/notify"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

// Scheduler runs the automated follow-up jobs: a first payment nudge
// shortly after an order is created, a second one much later, and a
// no-response check that alerts the admin when a customer has gone quiet.
// All jobs respect the per-order automation flag.
type Scheduler struct {
	cron      *cron.Cron
	orders    order.Repository
	customers customer.Repository
	messages  message.Repository
	alerts    alert.Repository
	policy    *notify.Policy
	cfg       config.ReminderConfig
}

func New(orders order.Repository, customers customer.Repository, messages message.Repository, alerts alert.Repository, policy *notify.Policy, cfg config.ReminderConfig) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		orders:    orders,
		customers: customers,
		messages:  messages,
		alerts:    alerts,
		policy:    policy,
		cfg:       cfg,
	}
}

func (s *Scheduler) Start() error {
	if err := s.cron.AddFunc("@every 1m", func() { s.run(1) }); err != nil {
		return err
	}
	if err := s.cron.AddFunc("@every 1h", func() { s.run(2) }); err != nil {
		return err
	}
	if err := s.cron.AddFunc("@every 1h", s.checkNoResponse); err != nil {
		return err
	}
	s.cron.Start()
	fmt.Println("reminder scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// run sends the n-th reminder to every order due for it. The window floor
// keeps very old orders from suddenly being nagged when the process comes
// back after downtime.
func (s *Scheduler) run(n int) {
	delay := s.cfg.FirstAfter
	if n == 2 {
		delay = s.cfg.SecondAfter
	}
	now := time.Now().UTC()
	cutoff := now.Add(-delay)
	floor := cutoff.Add(-delay)

	due, err := s.orders.ListDueForReminder(n, cutoff, floor)
	if err != nil {
		fmt.Printf("warning: reminder %d query failed: %v\n", n, err)
		return
	}

	for _, ord := range due {
		cust, err := s.customers.GetByID(ord.CustomerID)
		if err != nil {
			fmt.Printf("warning: reminder %d: no customer for order %d: %v\n", n, ord.ID, err)
			continue
		}

		s.policy.PaymentReminder(ord, cust, n)

		sentAt := time.Now().UTC()
		if n == 1 {
			ord.PaymentReminder1SentAt = &sentAt
		} else {
			ord.PaymentReminder2SentAt = &sentAt
		}
		if ord.Status == order.StatusCreated {
			ord.Status = order.StatusPaymentPending
		}
		if err := s.orders.Update(ord); err != nil {
			fmt.Printf("warning: could not record reminder %d for order %d: %v\n", n, ord.ID, err)
		}
	}

	if len(due) > 0 {
		fmt.Printf("sent %d payment reminder(s) (stage %d)\n", len(due), n)
	}
}

// checkNoResponse flags orders we have messaged but the customer has never
// answered. Flipping the automation flag both stops further reminders and
// keeps the order from being flagged twice.
func (s *Scheduler) checkNoResponse() {
	cutoff := time.Now().UTC().Add(-s.cfg.NoResponseAfter)

	silent, err := s.orders.ListSilent(cutoff)
	if err != nil {
		fmt.Printf("warning: no-response query failed: %v\n", err)
		return
	}

	for _, ord := range silent {
		sent, err := s.messages.CountOutgoing(ord.ID)
		if err != nil {
			fmt.Printf("warning: could not count messages for order %d: %v\n", ord.ID, err)
			continue
		}
		if sent == 0 {
			continue
		}

		ord.AutomationEnabled = false
		if err := s.orders.Update(ord); err != nil {
			fmt.Printf("warning: could not update order %d: %v\n", ord.ID, err)
			continue
		}
		if _, err := s.alerts.Create(alert.Alert{
			OrderID:     ord.ID,
			Reason:      alert.ReasonNoCustomerResponse,
			Description: fmt.Sprintf("No customer response for %v", s.cfg.NoResponseAfter),
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			fmt.Printf("warning: could not create no-response alert for order %d: %v\n", ord.ID, err)
			continue
		}
		fmt.Printf("no-response alert created for order %d\n", ord.ID)
	}
}
