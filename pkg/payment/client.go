// Package payment is the client for the external billing processor: it
// reads and rotates the membership price and verifies webhook
// deliveries. Checkout itself happens on the processor's side; this
// service only consumes the completed-session events.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"homefix/pkg/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Price is an active membership price at the processor.
type Price struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	ProductID string  `json:"product_id"`
}

// Client talks to the billing processor's REST API.
type Client struct {
	httpClient    *resty.Client
	webhookSecret []byte
	logger        *zap.Logger
}

// NewClient creates a billing processor client.
func NewClient(cfg *config.PaymentConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient:    client,
		webhookSecret: []byte(cfg.WebhookSecret),
		logger:        logger,
	}
}

type priceListResponse struct {
	Data []Price `json:"data"`
}

// GetMembershipPrice returns the single active membership price.
func (c *Client) GetMembershipPrice() (*Price, error) {
	var out priceListResponse
	resp, err := c.httpClient.R().
		SetQueryParam("active", "true").
		SetQueryParam("limit", "1").
		SetResult(&out).
		Get("/v1/prices")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("processor returned %s", resp.Status())
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("Nije pronađena aktivna cijena članarine.")
	}
	return &out.Data[0], nil
}

// UpdateMembershipPrice creates a new yearly price for the membership
// product and deactivates the old one. Processors treat prices as
// immutable, hence create-then-deactivate instead of an update.
func (c *Client) UpdateMembershipPrice(amount float64) (*Price, error) {
	current, err := c.GetMembershipPrice()
	if err != nil {
		return nil, err
	}

	var created Price
	resp, err := c.httpClient.R().
		SetBody(map[string]interface{}{
			"amount":     amount,
			"currency":   "eur",
			"interval":   "year",
			"product_id": current.ProductID,
		}).
		SetResult(&created).
		Post("/v1/prices")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("processor returned %s", resp.Status())
	}

	resp, err = c.httpClient.R().
		SetBody(map[string]interface{}{"active": false}).
		Post("/v1/prices/" + current.ID + "/deactivate")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		c.logger.Warn("Failed to deactivate previous membership price",
			zap.String("price_id", current.ID),
			zap.String("status", resp.Status()))
	}

	return &created, nil
}

// Event is a webhook delivery from the processor.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			AmountTotal int64  `json:"amount_total"`
			Currency    string `json:"currency"`
			Metadata    struct {
				UserID         string `json:"user_id"`
				ContractorData string `json:"contractor_data"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// EventCheckoutCompleted is the only event type this service consumes.
const EventCheckoutCompleted = "checkout.session.completed"

// VerifySignature checks the HMAC-SHA256 signature over the raw webhook
// body against the shared webhook secret.
func (c *Client) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, c.webhookSecret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvent verifies the signature and decodes the webhook payload.
func (c *Client) ParseEvent(payload []byte, signature string) (*Event, error) {
	if !c.VerifySignature(payload, signature) {
		return nil, fmt.Errorf("Krivi potpis")
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
