package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

func testAlert() model.RestockAlert {
	return model.RestockAlert{
		ID:          7,
		Branch:      model.BranchMaganjo,
		ProduceName: "maize",
		Requested:   decimal.NewFromInt(1500),
		Available:   decimal.NewFromInt(300),
		CreatedAt:   time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSendRestockAlert_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/restock" {
			t.Errorf("path = %s, want /api/restock", r.URL.Path)
		}

		var msg RestockMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("decode: %v", err)
		}
		if msg.AlertID != 7 || msg.Branch != "Maganjo" || msg.ProduceName != "maize" {
			t.Errorf("unexpected message: %+v", msg)
		}
		if !msg.Available.Equal(decimal.NewFromInt(300)) {
			t.Errorf("available = %s, want 300", msg.Available)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	code, retry, err := client.SendRestockAlert(ctx, testAlert())
	if err != nil {
		t.Fatalf("SendRestockAlert error: %v", err)
	}
	if code != http.StatusAccepted {
		t.Fatalf("status code = %d, want %d", code, http.StatusAccepted)
	}
	if retry != 0 {
		t.Fatalf("retryAfter = %v, want 0", retry)
	}
}

func TestSendRestockAlert_RetriesTransientFailure(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	code, _, err := NewClient(ts.URL).SendRestockAlert(context.Background(), testAlert())
	if err != nil {
		t.Fatalf("SendRestockAlert error: %v", err)
	}
	if code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", code, http.StatusOK)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestSendRestockAlert_TooManyRequests(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	code, retry, err := client.SendRestockAlert(ctx, testAlert())
	if err != nil {
		t.Fatalf("SendRestockAlert error: %v", err)
	}
	if code != http.StatusTooManyRequests {
		t.Fatalf("status code = %d, want %d", code, http.StatusTooManyRequests)
	}
	if retry != 5*time.Second {
		t.Fatalf("retryAfter = %v, want 5s", retry)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("429 must not be retried, calls = %d", got)
	}
}

func TestSendRestockAlert_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	code, _, err := client.SendRestockAlert(context.Background(), testAlert())
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want %d", code, http.StatusInternalServerError)
	}
}

func TestSendRestockAlert_NotConfigured(t *testing.T) {
	var client *Client

	if _, _, err := client.SendRestockAlert(context.Background(), testAlert()); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
