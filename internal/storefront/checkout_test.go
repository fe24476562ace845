package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-Mayank/Order-FollowUp-System/internal/apiclient"
	"github.com/A-Mayank/Order-FollowUp-System/internal/cart"
	"github.com/A-Mayank/Order-FollowUp-System/internal/catalog"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

type fakePlacer struct {
	calls []apiclient.CreateOrderRequest
	sum   order.Summary
	err   error
}

func (f *fakePlacer) CreateOrder(ctx context.Context, req apiclient.CreateOrderRequest) (order.Summary, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return order.Summary{}, f.err
	}
	return f.sum, nil
}

func fishCart() *cart.Cart {
	c := cart.New()
	c.Add(catalog.Product{ID: 1, Name: "Rohu", Price: "₹300", PriceNum: 300})
	c.Add(catalog.Product{ID: 7, Name: "Pomfret", Price: "₹450", PriceNum: 450})
	return c
}

func TestSubmitEmptyCartSkipsNetwork(t *testing.T) {
	placer := &fakePlacer{}
	ck := NewCheckout(placer, cart.New())
	ck.Form = Form{Name: "Asha", WhatsAppNumber: "+919999999999"}

	_, err := ck.Submit(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, placer.calls)
}

func TestSubmitMissingDetails(t *testing.T) {
	placer := &fakePlacer{}
	ck := NewCheckout(placer, fishCart())

	_, err := ck.Submit(context.Background())
	require.ErrorIs(t, err, ErrMissingDetails)
	assert.Empty(t, placer.calls)
}

func TestSubmitSuccessClearsState(t *testing.T) {
	placer := &fakePlacer{sum: order.Summary{ID: 42}}
	c := fishCart()
	ck := NewCheckout(placer, c)
	ck.Form = Form{Name: "Asha", WhatsAppNumber: "+919999999999"}

	res, err := ck.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, res.OrderID)
	assert.Equal(t, "Order placed successfully for 2 items! WhatsApp confirmation sent.", res.Message)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Form{}, ck.Form)

	require.Len(t, placer.calls, 1)
	req := placer.calls[0]
	assert.Equal(t, "Asha", req.Name)
	assert.Equal(t, "+919999999999", req.WhatsAppNumber)
	assert.Equal(t, "Rohu, Pomfret", req.ProductName)
	assert.Equal(t, float64(750), req.Amount)
}

func TestSubmitFailurePreservesState(t *testing.T) {
	placer := &fakePlacer{err: &apiclient.APIError{Status: 400, Detail: "Invalid WhatsApp number"}}
	c := fishCart()
	ck := NewCheckout(placer, c)
	ck.Form = Form{Name: "Asha", WhatsAppNumber: "bad"}

	_, err := ck.Submit(context.Background())
	require.EqualError(t, err, "Invalid WhatsApp number")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "Asha", ck.Form.Name)
}

func TestSubmitNetworkFailureGenericMessage(t *testing.T) {
	placer := &fakePlacer{err: errors.New("dial tcp: connection refused")}
	ck := NewCheckout(placer, fishCart())
	ck.Form = Form{Name: "Asha", WhatsAppNumber: "+919999999999"}

	_, err := ck.Submit(context.Background())
	require.EqualError(t, err, "Failed to create order. Please check your connection.")
}

// reentrantPlacer tries to submit again from inside CreateOrder, the way a
// double-clicked submit button would.
type reentrantPlacer struct {
	ck       *Checkout
	guardErr error
}

func (p *reentrantPlacer) CreateOrder(ctx context.Context, req apiclient.CreateOrderRequest) (order.Summary, error) {
	_, p.guardErr = p.ck.Submit(ctx)
	return order.Summary{ID: 1}, nil
}

func TestSubmitInFlightGuard(t *testing.T) {
	placer := &reentrantPlacer{}
	ck := NewCheckout(placer, fishCart())
	ck.Form = Form{Name: "Asha", WhatsAppNumber: "+919999999999"}
	placer.ck = ck

	res, err := ck.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.OrderID)
	require.ErrorIs(t, placer.guardErr, ErrSubmitInFlight)
}
