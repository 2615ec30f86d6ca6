package ghn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL: baseURL,
		Token:   "test-token",
		ShopID:  "12345",
	})
}

func TestQuoteFeeSuccess(t *testing.T) {
	var gotWeight int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != feeEndpoint {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Token") != "test-token" || r.Header.Get("ShopId") != "12345" {
			t.Errorf("missing credential headers")
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request failed: %v", err)
		}
		gotWeight = int(payload["weight"].(float64))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"Success","data":{"total":25000,"service_fee":22000,"insurance_fee":3000}}`))
	}))
	defer server.Close()

	quote, err := testClient(server.URL).QuoteFee(context.Background(), QuoteInput{
		ToDistrictID: 1442,
		ToWardCode:   "21211",
		WeightGram:   750,
		InsuranceVND: 465000,
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.Fee != 25000 || quote.ServiceFee != 22000 || quote.InsuranceFee != 3000 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
	if gotWeight != 750 {
		t.Fatalf("expected weight 750, got %d", gotWeight)
	}
}

func TestQuoteFeeDefaultsWeight(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request failed: %v", err)
		}
		if weight := int(payload["weight"].(float64)); weight != 500 {
			t.Errorf("expected default weight 500, got %d", weight)
		}
		w.Write([]byte(`{"code":200,"data":{"total":18000}}`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).QuoteFee(context.Background(), QuoteInput{
		ToDistrictID: 1442,
		ToWardCode:   "21211",
	}); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
}

func TestQuoteFeeRetriesOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"code":200,"data":{"total":25000}}`))
	}))
	defer server.Close()

	quote, err := testClient(server.URL).QuoteFee(context.Background(), QuoteInput{
		ToDistrictID: 1442,
		ToWardCode:   "21211",
		WeightGram:   500,
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.Fee != 25000 {
		t.Fatalf("unexpected fee: %d", quote.Fee)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestQuoteFeeGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":400,"message":"district not found"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).QuoteFee(context.Background(), QuoteInput{
		ToDistrictID: 999999,
		ToWardCode:   "21211",
	})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}

func TestQuoteFeeUnconfigured(t *testing.T) {
	client := NewClient(Config{})
	if client.Configured() {
		t.Fatalf("expected empty config to be unconfigured")
	}
	if _, err := client.QuoteFee(context.Background(), QuoteInput{ToDistrictID: 1, ToWardCode: "1"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestQuoteFeeDestinationRequired(t *testing.T) {
	client := testClient("https://dev-online-gateway.ghn.vn")
	if _, err := client.QuoteFee(context.Background(), QuoteInput{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing destination, got %v", err)
	}
}
