// Package backend talks to the ordering backend on behalf of one diner session.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"qr-dine/diner-svc/internal/domain"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource returns the current access token, or "" when signed out.
type TokenSource func() string

type Client struct {
	baseURL string
	http    HTTPClient
	token   TokenSource
}

func NewClient(baseURL string, httpClient HTTPClient, token TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		token:   token,
	}
}

// WithToken returns a copy of the client bound to another token source.
func (c *Client) WithToken(token TokenSource) *Client {
	return &Client{baseURL: c.baseURL, http: c.http, token: token}
}

func (c *Client) ScanQR(ctx context.Context, params domain.ScanParams) (*domain.ScanResponse, error) {
	var resp domain.ScanResponse
	if err := c.do(ctx, http.MethodPost, "/api/qr/scan", nil, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAvailableOffers(ctx context.Context, scope domain.Scope) ([]domain.Offer, error) {
	var resp struct {
		Data struct {
			Data []domain.Offer `json:"data"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/offers/available", scopeQuery(scope), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Data, nil
}

func (c *Client) GetMenu(ctx context.Context, scope domain.Scope) (*domain.Menu, error) {
	var resp struct {
		Data domain.Menu `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/menu", scopeQuery(scope), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) GetCart(ctx context.Context, scope domain.Scope) ([]domain.CartItem, error) {
	var resp struct {
		Data struct {
			Items []domain.CartItem `json:"items"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cart", scopeQuery(scope), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Items, nil
}

func (c *Client) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	var resp domain.CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/api/orders/checkout", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) InitiateRazorpayPayment(ctx context.Context, req domain.PaymentInitRequest) (*domain.PaymentSession, error) {
	var resp domain.PaymentSession
	if err := c.do(ctx, http.MethodPost, "/api/payments/razorpay/initiate", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CheckPaymentStatus(ctx context.Context, transactionID string) (*domain.PaymentStatusResult, error) {
	var resp domain.PaymentStatusResult
	path := "/api/payments/status/" + url.PathEscape(transactionID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) LogoutCurrentSession(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) LogoutAllSessions(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout-all", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("ERROR: %s %s failed: %v", method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the optional message out of an error body. Both
// {"message": "..."} and {"error": {"message": "..."}} are accepted.
func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}

	var nested struct {
		Message string `json:"message"`
	}
	if len(body.Error) > 0 && json.Unmarshal(body.Error, &nested) == nil {
		return nested.Message
	}
	return ""
}

func scopeQuery(scope domain.Scope) url.Values {
	q := url.Values{}
	q.Set("hotelId", scope.HotelID)
	q.Set("branchId", scope.BranchID)
	return q
}
