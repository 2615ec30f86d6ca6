package ghn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("ghn config invalid")
	ErrRequestFailed   = errors.New("ghn request failed")
	ErrResponseInvalid = errors.New("ghn response invalid")
)

const feeEndpoint = "/shiip/public-api/v2/shipping-order/fee"

// Config holds the gateway credentials and timeout tuning.
type Config struct {
	BaseURL        string
	Token          string
	ShopID         string
	TimeoutSeconds int
}

// QuoteInput describes one shipment to price.
type QuoteInput struct {
	ToDistrictID int
	ToWardCode   string
	WeightGram   int
	InsuranceVND int64
}

// Quote is a priced shipment.
type Quote struct {
	Fee          int64 // total shipping fee in whole VND
	ServiceFee   int64
	InsuranceFee int64
}

// Client calls the GHN fee-quote API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a GHN client.
func NewClient(cfg Config) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c != nil &&
		strings.TrimSpace(c.cfg.BaseURL) != "" &&
		strings.TrimSpace(c.cfg.Token) != "" &&
		strings.TrimSpace(c.cfg.ShopID) != ""
}

// QuoteFee asks the gateway for a shipping fee. A transient failure is
// retried once before giving up.
func (c *Client) QuoteFee(ctx context.Context, input QuoteInput) (*Quote, error) {
	if !c.Configured() {
		return nil, ErrConfigInvalid
	}
	if input.ToDistrictID <= 0 || strings.TrimSpace(input.ToWardCode) == "" {
		return nil, fmt.Errorf("%w: destination is required", ErrConfigInvalid)
	}
	weight := input.WeightGram
	if weight <= 0 {
		weight = 500
	}

	quote, err := c.requestFee(ctx, input, weight)
	if err == nil {
		return quote, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	return c.requestFee(ctx, input, weight)
}

func (c *Client) requestFee(ctx context.Context, input QuoteInput, weight int) (*Quote, error) {
	payload := map[string]interface{}{
		"to_district_id": input.ToDistrictID,
		"to_ward_code":   strings.TrimSpace(input.ToWardCode),
		"weight":         weight,
		"service_type_id": 2,
	}
	if input.InsuranceVND > 0 {
		payload["insurance_value"] = input.InsuranceVND
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(strings.TrimSpace(c.cfg.BaseURL), "/") + feeEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", strings.TrimSpace(c.cfg.Token))
	req.Header.Set("ShopId", strings.TrimSpace(c.cfg.ShopID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var parsed struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Total        int64 `json:"total"`
			ServiceFee   int64 `json:"service_fee"`
			InsuranceFee int64 `json:"insurance_fee"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, ErrResponseInvalid
	}
	if parsed.Code != 200 {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, parsed.Message)
	}
	if parsed.Data.Total <= 0 {
		return nil, fmt.Errorf("%w: non-positive fee", ErrResponseInvalid)
	}
	return &Quote{
		Fee:          parsed.Data.Total,
		ServiceFee:   parsed.Data.ServiceFee,
		InsuranceFee: parsed.Data.InsuranceFee,
	}, nil
}
