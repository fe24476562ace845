package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/A-Mayank/Order-FollowUp-System/internal/alert"
	"github.com/A-Mayank/Order-FollowUp-System/internal/message"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

// APIError is a business error reported by the server; Detail is surfaced
// verbatim to the operator or customer.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// Client talks to the order-followup REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SignIn exchanges the operator password for a bearer token used on all
// subsequent requests.
func (c *Client) SignIn(ctx context.Context, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/admin/sign-in", nil,
		map[string]string{"password": password}, &out)
	if err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

type CreateOrderRequest struct {
	Name           string  `json:"name"`
	WhatsAppNumber string  `json:"whatsapp_number"`
	ProductName    string  `json:"product_name"`
	Amount         float64 `json:"amount"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (order.Summary, error) {
	var out order.Summary
	err := c.do(ctx, http.MethodPost, "/api/orders/", nil, req, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id int) (order.Summary, error) {
	var out order.Summary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdatePayment(ctx context.Context, id int, paid bool) error {
	q := url.Values{"paid": []string{strconv.FormatBool(paid)}}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/payment-status", id), q, nil, nil)
}

func (c *Client) MarkInProcess(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/process", id), nil, nil, nil)
}

func (c *Client) MarkShipped(ctx context.Context, id int, trackingID, carrier string) error {
	q := url.Values{}
	if trackingID != "" {
		q.Set("tracking_id", trackingID)
	}
	if carrier != "" {
		q.Set("carrier", carrier)
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/ship", id), q, nil, nil)
}

func (c *Client) MarkOutForDelivery(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/out-for-delivery", id), nil, nil, nil)
}

func (c *Client) MarkDelivered(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/deliver", id), nil, nil, nil)
}

func (c *Client) AdminOrders(ctx context.Context, skip, limit int) ([]order.Summary, error) {
	var out []order.Summary
	err := c.do(ctx, http.MethodGet, "/api/admin/orders", paging(skip, limit), nil, &out)
	return out, err
}

func (c *Client) AdminMessages(ctx context.Context, orderID *int, skip, limit int) ([]message.Message, error) {
	q := paging(skip, limit)
	if orderID != nil {
		q.Set("order_id", strconv.Itoa(*orderID))
	}
	var out []message.Message
	err := c.do(ctx, http.MethodGet, "/api/admin/messages", q, nil, &out)
	return out, err
}

func (c *Client) AdminAlerts(ctx context.Context, resolved *bool, skip, limit int) ([]alert.Alert, error) {
	q := paging(skip, limit)
	if resolved != nil {
		q.Set("resolved", strconv.FormatBool(*resolved))
	}
	var out []alert.Alert
	err := c.do(ctx, http.MethodGet, "/api/admin/alerts", q, nil, &out)
	return out, err
}

func (c *Client) SyncMessages(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/admin/sync-messages", nil, nil, &out)
	return out.Message, err
}

func (c *Client) ResolveAlert(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/alerts/%d/resolve", id), nil, nil, nil)
}

func (c *Client) CancelOrder(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/cancel", id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(res.Body).Decode(&payload); err == nil && payload.Detail != "" {
			return &APIError{Status: res.StatusCode, Detail: payload.Detail}
		}
		return &APIError{Status: res.StatusCode, Detail: fmt.Sprintf("request failed with status %d", res.StatusCode)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func paging(skip, limit int) url.Values {
	return url.Values{
		"skip":  []string{strconv.Itoa(skip)},
		"limit": []string{strconv.Itoa(limit)},
	}
}
