package vnpay

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		BaseURL:    "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		TmnCode:    "TESTCODE",
		HashSecret: "TESTSECRET",
		ReturnURL:  "https://shop.example.com/payments/vnpay/return",
	}
}

func TestConfigValidate(t *testing.T) {
	if err := testConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	var nilCfg *Config
	if err := nilCfg.Validate(); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for nil config, got %v", err)
	}
	broken := testConfig()
	broken.HashSecret = ""
	if err := broken.Validate(); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing secret, got %v", err)
	}
}

func TestBuildPaymentURL(t *testing.T) {
	cfg := testConfig()
	created := time.Date(2026, 3, 15, 10, 30, 0, 0, time.Local)
	raw, err := BuildPaymentURL(cfg, CreateInput{
		OrderNo:   "ORD20260315103000000001",
		Amount:    465000,
		ClientIP:  "203.0.113.9",
		CreatedAt: created,
		ExpiresAt: created.Add(15 * time.Minute),
	})
	if err != nil {
		t.Fatalf("build url failed: %v", err)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url failed: %v", err)
	}
	query := parsed.Query()
	if got := query.Get("vnp_Amount"); got != strconv.FormatInt(465000*100, 10) {
		t.Fatalf("expected amount in xu, got %q", got)
	}
	if got := query.Get("vnp_CreateDate"); got != "20260315103000" {
		t.Fatalf("unexpected create date: %q", got)
	}
	if got := query.Get("vnp_ExpireDate"); got != "20260315104500" {
		t.Fatalf("unexpected expire date: %q", got)
	}
	if got := query.Get("vnp_TxnRef"); got != "ORD20260315103000000001" {
		t.Fatalf("unexpected txn ref: %q", got)
	}

	params := make(map[string]string)
	for key := range query {
		if key == "vnp_SecureHash" {
			continue
		}
		params[key] = query.Get(key)
	}
	if got := query.Get("vnp_SecureHash"); got != signParams(params, cfg.HashSecret) {
		t.Fatalf("signature does not verify: %q", got)
	}
}

func TestBuildPaymentURLRejectsBadInput(t *testing.T) {
	cfg := testConfig()
	if _, err := BuildPaymentURL(cfg, CreateInput{OrderNo: "ORD1", Amount: 0}); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("expected ErrAmountInvalid, got %v", err)
	}
	if _, err := BuildPaymentURL(cfg, CreateInput{Amount: 1000}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing order no, got %v", err)
	}
}

func signedCallbackForm(secret string, params map[string]string) url.Values {
	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("vnp_SecureHash", signParams(params, secret))
	return form
}

func TestVerifyCallbackSuccess(t *testing.T) {
	cfg := testConfig()
	form := signedCallbackForm(cfg.HashSecret, map[string]string{
		"vnp_TxnRef":        "ORD20260315103000000001",
		"vnp_Amount":        "46500000",
		"vnp_ResponseCode":  "00",
		"vnp_TransactionNo": "14567890",
		"vnp_BankCode":      "NCB",
		"vnp_PayDate":       "20260315103215",
	})

	result, err := VerifyCallback(cfg, form)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success for response code 00")
	}
	if result.Amount != 465000 {
		t.Fatalf("expected amount converted back to VND, got %d", result.Amount)
	}
	if result.OrderNo != "ORD20260315103000000001" || result.TransactionNo != "14567890" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestVerifyCallbackTamperedSignature(t *testing.T) {
	cfg := testConfig()
	form := signedCallbackForm(cfg.HashSecret, map[string]string{
		"vnp_TxnRef":       "ORD1",
		"vnp_Amount":       "100000",
		"vnp_ResponseCode": "00",
	})
	form.Set("vnp_Amount", "200000")

	if _, err := VerifyCallback(cfg, form); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	form.Del("vnp_SecureHash")
	if _, err := VerifyCallback(cfg, form); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid for missing hash, got %v", err)
	}
}

func TestVerifyCallbackAmountNotInXu(t *testing.T) {
	cfg := testConfig()
	form := signedCallbackForm(cfg.HashSecret, map[string]string{
		"vnp_TxnRef":       "ORD1",
		"vnp_Amount":       "100050",
		"vnp_ResponseCode": "00",
	})

	if _, err := VerifyCallback(cfg, form); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("expected ErrAmountInvalid, got %v", err)
	}
}

func TestVerifyCallbackFailureCode(t *testing.T) {
	cfg := testConfig()
	form := signedCallbackForm(cfg.HashSecret, map[string]string{
		"vnp_TxnRef":       "ORD1",
		"vnp_Amount":       "100000",
		"vnp_ResponseCode": "24",
	})

	result, err := VerifyCallback(cfg, form)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure for response code 24")
	}
}
