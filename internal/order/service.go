package order

import (
	"errors"
	"strings"
	"time"

	"github.com/A-Mayank/Order-FollowUp-System/internal/customer"
)

var ErrAlreadyCancelled = errors.New("Order is already cancelled")

// Notifier sends customer-facing notifications for lifecycle events.
// Implementations must not fail the triggering operation: delivery problems
// are logged, never returned.
type Notifier interface {
	OrderConfirmation(ord Order, cust customer.Customer)
	PaymentConfirmation(ord Order, cust customer.Customer)
	InProcess(ord Order, cust customer.Customer)
	Shipped(ord Order, cust customer.Customer)
	OutForDelivery(ord Order, cust customer.Customer)
	Delivered(ord Order, cust customer.Customer)
	Cancelled(ord Order, cust customer.Customer)
}

// Service provides business logic for orders.
type Service struct {
	repo      Repository
	customers customer.Repository
	notifier  Notifier
}

func NewService(repo Repository, customers customer.Repository, notifier Notifier) *Service {
	return &Service{repo: repo, customers: customers, notifier: notifier}
}

// Create finds or creates the customer by WhatsApp number and records a new
// order. ProductName and Amount are frozen here and never recomputed.
func (s *Service) Create(name, whatsappNumber, productName string, amount float64) (Summary, error) {
	name = strings.TrimSpace(name)
	whatsappNumber = strings.TrimSpace(whatsappNumber)
	if name == "" || whatsappNumber == "" {
		return Summary{}, errors.New("name and whatsapp_number are required")
	}
	if amount < 0 {
		return Summary{}, errors.New("amount must be non-negative")
	}

	cust, err := s.customers.Upsert(name, whatsappNumber)
	if err != nil {
		return Summary{}, err
	}

	created, err := s.repo.Create(Order{
		CustomerID:        cust.ID,
		Status:            StatusCreated,
		PaymentStatus:     PaymentPending,
		Sentiment:         SentimentUnknown,
		AutomationEnabled: true,
		ProductName:       productName,
		Amount:            amount,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		return Summary{}, err
	}

	if s.notifier != nil {
		s.notifier.OrderConfirmation(created, cust)
	}
	return s.toSummary(created, cust), nil
}

func (s *Service) Get(id int) (Summary, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Summary{}, err
	}
	cust, err := s.customers.GetByID(ord.CustomerID)
	if err != nil {
		return Summary{}, err
	}
	return s.toSummary(ord, cust), nil
}

// SetPayment updates the payment flag. paid=true also advances the
// lifecycle to PAID when the order is still in its initial stages.
func (s *Service) SetPayment(id int, paid bool) error {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if paid {
		ord.PaymentStatus = PaymentPaid
		if ord.Status == StatusCreated || ord.Status == StatusPaymentPending {
			ord.Status = StatusPaid
		}
	} else {
		ord.PaymentStatus = PaymentFailed
	}
	if err := s.repo.Update(ord); err != nil {
		return err
	}

	if paid {
		s.notify(ord, func(n Notifier, o Order, c customer.Customer) { n.PaymentConfirmation(o, c) })
	}
	return nil
}

func (s *Service) MarkInProcess(id int) error {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	ord.Status = StatusInProcess
	if err := s.repo.Update(ord); err != nil {
		return err
	}
	s.notify(ord, func(n Notifier, o Order, c customer.Customer) { n.InProcess(o, c) })
	return nil
}

func (s *Service) Ship(id int, trackingID, carrier string) error {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	ord.Status = StatusShipped
	now := time.Now().UTC()
	ord.ShippedAt = &now
	if trackingID != "" {
		ord.TrackingID = &trackingID
	}
	if carrier != "" {
		ord.Carrier = &carrier
	}
	if err := s.repo.Update(ord); err != nil {
		return err
	}
	s.notify(ord, func(n Notifier, o Order, c customer.Customer) { n.Shipped(o, c) })
	return nil
}

func (s *Service) MarkOutForDelivery(id int) error {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	ord.Status = StatusOutForDelivery
	if err := s.repo.Update(ord); err != nil {
		return err
	}
	s.notify(ord, func(n Notifier, o Order, c customer.Customer) { n.OutForDelivery(o, c) })
	return nil
}

func (s *Service) Deliver(id int) error {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	ord.Status = StatusDelivered
	now := time.Now().UTC()
	ord.DeliveredAt = &now
	if err := s.repo.Update(ord); err != nil {
		return err
	}
	s.notify(ord, func(n Notifier, o Order, c customer.Customer) { n.Delivered(o, c) })
	return nil
}

// Cancel sets the order CANCELLED, switches automation off and notifies the
// customer. Alert bookkeeping is the caller's concern.
func (s *Service) Cancel(id int) error {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if ord.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	ord.Status = StatusCancelled
	ord.AutomationEnabled = false
	if err := s.repo.Update(ord); err != nil {
		return err
	}
	s.notify(ord, func(n Notifier, o Order, c customer.Customer) { n.Cancelled(o, c) })
	return nil
}

// List returns order summaries newest first, joining customer details in a
// single batched lookup.
func (s *Service) List(skip, limit int) ([]Summary, error) {
	orders, err := s.repo.List(skip, limit)
	if err != nil {
		return nil, err
	}

	idSet := map[int]struct{}{}
	ids := make([]int, 0, len(orders))
	for _, ord := range orders {
		if _, ok := idSet[ord.CustomerID]; !ok {
			idSet[ord.CustomerID] = struct{}{}
			ids = append(ids, ord.CustomerID)
		}
	}
	customers, err := s.customers.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]customer.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	summaries := make([]Summary, 0, len(orders))
	for _, ord := range orders {
		summaries = append(summaries, s.toSummary(ord, byID[ord.CustomerID]))
	}
	return summaries, nil
}

func (s *Service) notify(ord Order, send func(Notifier, Order, customer.Customer)) {
	if s.notifier == nil {
		return
	}
	cust, err := s.customers.GetByID(ord.CustomerID)
	if err != nil {
		return
	}
	send(s.notifier, ord, cust)
}

func (s *Service) toSummary(ord Order, cust customer.Customer) Summary {
	return Summary{
		ID:                ord.ID,
		UserName:          cust.Name,
		WhatsAppNumber:    cust.WhatsAppNumber,
		Status:            ord.Status,
		PaymentStatus:     ord.PaymentStatus,
		Sentiment:         ord.Sentiment,
		AutomationEnabled: ord.AutomationEnabled,
		ProductName:       ord.ProductName,
		Amount:            ord.Amount,
		CreatedAt:         ord.CreatedAt,
		FeedbackRating:    ord.FeedbackRating,
		FeedbackText:      ord.FeedbackText,
	}
}
