package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("vnpay config invalid")
	ErrSignatureInvalid = errors.New("vnpay signature invalid")
	ErrAmountInvalid    = errors.New("vnpay amount invalid")
)

const (
	versionValue  = "2.1.0"
	commandPay    = "pay"
	currencyCode  = "VND"
	localeDefault = "vn"

	// ResponseCodeSuccess is the gateway code for a captured payment.
	ResponseCodeSuccess = "00"
)

// Config holds the merchant credentials for the redirect gateway.
type Config struct {
	BaseURL    string // payment page base URL
	TmnCode    string // merchant terminal code
	HashSecret string // HMAC-SHA512 secret
	ReturnURL  string // browser return URL
}

// CreateInput describes one payment to redirect the buyer to.
type CreateInput struct {
	OrderNo   string
	Amount    int64 // whole VND
	OrderInfo string
	ClientIP  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// CallbackResult is the parsed and verified gateway callback.
type CallbackResult struct {
	OrderNo       string
	Amount        int64 // whole VND
	ResponseCode  string
	TransactionNo string
	BankCode      string
	PayDate       string
	Success       bool
}

// Validate checks credential completeness.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.TmnCode) == "" {
		return fmt.Errorf("%w: tmn_code is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.HashSecret) == "" {
		return fmt.Errorf("%w: hash_secret is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.ReturnURL) == "" {
		return fmt.Errorf("%w: return_url is required", ErrConfigInvalid)
	}
	return nil
}

// BuildPaymentURL builds the signed redirect URL for one order. The gateway
// expects amounts multiplied by 100 and parameters signed in sorted order.
func BuildPaymentURL(cfg *Config, input CreateInput) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(input.OrderNo) == "" {
		return "", fmt.Errorf("%w: order_no is required", ErrConfigInvalid)
	}
	if input.Amount <= 0 {
		return "", ErrAmountInvalid
	}
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	orderInfo := strings.TrimSpace(input.OrderInfo)
	if orderInfo == "" {
		orderInfo = "Thanh toan don hang " + input.OrderNo
	}
	clientIP := strings.TrimSpace(input.ClientIP)
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := map[string]string{
		"vnp_Version":    versionValue,
		"vnp_Command":    commandPay,
		"vnp_TmnCode":    cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(input.Amount*100, 10),
		"vnp_CurrCode":   currencyCode,
		"vnp_TxnRef":     input.OrderNo,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     localeDefault,
		"vnp_ReturnUrl":  cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": createdAt.Format("20060102150405"),
	}
	if !input.ExpiresAt.IsZero() {
		params["vnp_ExpireDate"] = input.ExpiresAt.Format("20060102150405")
	}

	query := buildSignedQuery(params, cfg.HashSecret)
	return strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "?") + "?" + query, nil
}

// VerifyCallback validates the signature of a return or IPN request and
// parses the payment outcome.
func VerifyCallback(cfg *Config, form url.Values) (*CallbackResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	receivedHash := strings.TrimSpace(form.Get("vnp_SecureHash"))
	if receivedHash == "" {
		return nil, ErrSignatureInvalid
	}

	params := make(map[string]string, len(form))
	for key := range form {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		if value := form.Get(key); value != "" {
			params[key] = value
		}
	}
	expected := signParams(params, cfg.HashSecret)
	if !hmac.Equal([]byte(strings.ToLower(receivedHash)), []byte(expected)) {
		return nil, ErrSignatureInvalid
	}

	rawAmount := strings.TrimSpace(form.Get("vnp_Amount"))
	amount, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil || amount <= 0 || amount%100 != 0 {
		return nil, ErrAmountInvalid
	}

	result := &CallbackResult{
		OrderNo:       strings.TrimSpace(form.Get("vnp_TxnRef")),
		Amount:        amount / 100,
		ResponseCode:  strings.TrimSpace(form.Get("vnp_ResponseCode")),
		TransactionNo: strings.TrimSpace(form.Get("vnp_TransactionNo")),
		BankCode:      strings.TrimSpace(form.Get("vnp_BankCode")),
		PayDate:       strings.TrimSpace(form.Get("vnp_PayDate")),
	}
	result.Success = result.ResponseCode == ResponseCodeSuccess
	return result, nil
}

// buildSignedQuery renders the sorted, URL-encoded query string with the
// vnp_SecureHash parameter appended.
func buildSignedQuery(params map[string]string, secret string) string {
	keys := sortedKeys(params)
	pairs := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(params[key]))
	}
	query := strings.Join(pairs, "&")
	return query + "&vnp_SecureHash=" + signParams(params, secret)
}

// signParams computes the lowercase hex HMAC-SHA512 over the sorted,
// URL-encoded parameter string.
func signParams(params map[string]string, secret string) string {
	keys := sortedKeys(params)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(params[key]))
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return strings.ToLower(hex.EncodeToString(mac.Sum(nil)))
}

func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
