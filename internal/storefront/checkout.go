package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/A-Mayank/Order-FollowUp-System/internal/apiclient"
	"github.com/A-Mayank/Order-FollowUp-System/internal/cart"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

var (
	ErrEmptyCart      = errors.New("please add at least one product to the cart")
	ErrMissingDetails = errors.New("please enter your name and WhatsApp number")
	ErrSubmitInFlight = errors.New("order submission already in progress")
)

// Form holds the customer details entered at checkout.
type Form struct {
	Name           string
	WhatsAppNumber string
}

// Result reports a successful submission.
type Result struct {
	OrderID int
	Message string
}

// OrderPlacer is the slice of the API client checkout needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req apiclient.CreateOrderRequest) (order.Summary, error)
}

// Checkout drives the submit flow for a cart. It is not safe for concurrent
// use; the in-flight guard protects against re-entrant submits from the same
// caller, not against races.
type Checkout struct {
	api      OrderPlacer
	cart     *cart.Cart
	Form     Form
	inFlight bool
}

func NewCheckout(api OrderPlacer, c *cart.Cart) *Checkout {
	return &Checkout{api: api, cart: c}
}

// Submit validates the form and cart, places the order, and on success
// clears both. On failure the cart and form are left untouched so the
// customer can retry.
func (ck *Checkout) Submit(ctx context.Context) (Result, error) {
	if ck.inFlight {
		return Result{}, ErrSubmitInFlight
	}
	if ck.Form.Name == "" || ck.Form.WhatsAppNumber == "" {
		return Result{}, ErrMissingDetails
	}
	if ck.cart.Len() == 0 {
		return Result{}, ErrEmptyCart
	}

	ck.inFlight = true
	defer func() { ck.inFlight = false }()

	count := ck.cart.Len()
	sum, err := ck.api.CreateOrder(ctx, apiclient.CreateOrderRequest{
		Name:           ck.Form.Name,
		WhatsAppNumber: ck.Form.WhatsAppNumber,
		ProductName:    ck.cart.ProductNames(),
		Amount:         float64(ck.cart.Total()),
	})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			return Result{}, apiErr
		}
		return Result{}, errors.New("Failed to create order. Please check your connection.")
	}

	ck.cart.Clear()
	ck.Form = Form{}
	return Result{
		OrderID: sum.ID,
		Message: fmt.Sprintf("Order placed successfully for %d items! WhatsApp confirmation sent.", count),
	}, nil
}
