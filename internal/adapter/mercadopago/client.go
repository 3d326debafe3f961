package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// APIError carries the processor's HTTP status for a failed call.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: status %d", e.Status)
}

// Retryable reports whether the failure is worth retrying.
func (e *APIError) Retryable() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// PreferenceItem is one payable line sent to the processor.
type PreferenceItem struct {
	Title     string  `json:"title"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency_id"`
}

// PreferenceRequest describes a hosted payment session to create.
type PreferenceRequest struct {
	Items             []PreferenceItem
	ExternalReference string
	PayerName         string
	PayerEmail        string
}

// Client exposes the payment processor operations used by the shop.
type Client interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*model.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	GetMerchantOrder(ctx context.Context, merchantOrderID string) (*model.MerchantOrder, error)
	SearchPaymentsByReference(ctx context.Context, reference string) ([]model.Payment, error)
}

// Options tune the HTTP client retry budget.
type Options struct {
	MaxRetries int
	RetryBase  time.Duration
}

// HTTPClient implements Client against the MercadoPago REST API.
type HTTPClient struct {
	baseURL     *url.URL
	token       string
	currency    string
	callbackURL string
	maxRetries  int
	retryBase   time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

const statementDescriptor = "COFFEE-BEANS"

// NewHTTPClient creates a processor client with default timeout.
func NewHTTPClient(baseURL, token, currency, callbackURL string, opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment api url must be absolute")
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 4
	}
	retryBase := opts.RetryBase
	if retryBase <= 0 {
		retryBase = 300 * time.Millisecond
	}
	return &HTTPClient{
		baseURL:     parsed,
		token:       token,
		currency:    currency,
		callbackURL: callbackURL,
		maxRetries:  maxRetries,
		retryBase:   retryBase,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type preferencePayload struct {
	Items               []PreferenceItem  `json:"items"`
	BinaryMode          bool              `json:"binary_mode"`
	NotificationURL     string            `json:"notification_url"`
	ExternalReference   string            `json:"external_reference"`
	StatementDescriptor string            `json:"statement_descriptor"`
	Payer               preferencePayer   `json:"payer"`
}

type preferencePayer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

type merchantOrderResponse struct {
	ID       json.Number       `json:"id"`
	Payments []paymentResponse `json:"payments"`
}

type paymentSearchResponse struct {
	Results []paymentResponse `json:"results"`
}

// CreatePreference registers a hosted payment session for an order. The
// call carries a fresh idempotency key and is retried with exponential
// backoff on server errors and rate limiting.
func (c *HTTPClient) CreatePreference(ctx context.Context, req PreferenceRequest) (*model.Preference, error) {
	items := make([]PreferenceItem, len(req.Items))
	copy(items, req.Items)
	for i := range items {
		if items[i].Currency == "" {
			items[i].Currency = c.currency
		}
	}

	payload := preferencePayload{
		Items:               items,
		BinaryMode:          true,
		NotificationURL:     c.callbackURL,
		ExternalReference:   req.ExternalReference,
		StatementDescriptor: statementDescriptor,
		Payer:               preferencePayer{Name: req.PayerName, Email: req.PayerEmail},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal preference: %w", err)
	}

	idempotencyKey := uuid.NewString()

	var resp preferenceResponse
	err = c.withRetry(ctx, func() error {
		return c.do(ctx, http.MethodPost, "/checkout/preferences", body, map[string]string{
			"X-Idempotency-Key": idempotencyKey,
		}, &resp)
	})
	if err != nil {
		return nil, err
	}

	return &model.Preference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

// GetPayment fetches the canonical record for a payment.
func (c *HTTPClient) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, path.Join("/v1/payments", paymentID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return toPayment(resp), nil
}

// GetMerchantOrder fetches a merchant order with its payments.
func (c *HTTPClient) GetMerchantOrder(ctx context.Context, merchantOrderID string) (*model.MerchantOrder, error) {
	var resp merchantOrderResponse
	if err := c.do(ctx, http.MethodGet, path.Join("/merchant_orders", merchantOrderID), nil, nil, &resp); err != nil {
		return nil, err
	}
	mo := &model.MerchantOrder{ID: resp.ID.String()}
	for _, p := range resp.Payments {
		mo.Payments = append(mo.Payments, model.MerchantOrderPayment{
			ID:     p.ID.String(),
			Status: model.PaymentStatus(p.Status),
		})
	}
	return mo, nil
}

// SearchPaymentsByReference lists payments attached to an external
// reference. Used by the pending-order reconciler.
func (c *HTTPClient) SearchPaymentsByReference(ctx context.Context, reference string) ([]model.Payment, error) {
	endpoint := "/v1/payments/search?" + url.Values{"external_reference": {reference}}.Encode()
	var resp paymentSearchResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &resp); err != nil {
		return nil, err
	}
	payments := make([]model.Payment, 0, len(resp.Results))
	for _, r := range resp.Results {
		payments = append(payments, *toPayment(r))
	}
	return payments, nil
}

func toPayment(r paymentResponse) *model.Payment {
	return &model.Payment{
		ID:                r.ID.String(),
		Status:            model.PaymentStatus(r.Status),
		ExternalReference: r.ExternalReference,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body []byte, headers map[string]string, out any) error {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	target := c.baseURL.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("payment api request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
		)
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// withRetry runs fn with exponential backoff and jitter. Client errors
// other than 429 fail fast.
func (c *HTTPClient) withRetry(ctx context.Context, fn func() error) error {
	var last error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBase<<(attempt-1) + time.Duration(rand.Int63n(int64(100*time.Millisecond)))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		last = err

		if apiErr, ok := err.(*APIError); ok && !apiErr.Retryable() {
			return err
		}
	}
	return last
}
