package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/scan"
)

func sampleNotification() Notification {
	return Notification{
		RunAt:            time.Date(2023, time.February, 1, 6, 0, 0, 0, time.UTC),
		ThresholdPct:     decimal.NewFromInt(200),
		TotalAlerts:      3,
		FlaggedProviders: 2,
		Channels:         []string{"telegram"},
		TopAlerts: []scan.FraudAlert{
			{
				ProviderID:    "NPI1",
				ProviderName:  "Smith Clinic",
				StateCode:     "CA",
				ProcedureCode: "93000",
				Period:        "2023-02",
				CurrentAmount: decimal.NewFromInt(55000),
				ComparisonAmount: decimal.NewFromInt(2500),
				DeviationPct:  decimal.NewFromInt(2100),
				Severity:      scan.SeverityCritical,
				Detector:      scan.DetectorTemporal,
			},
		},
	}
}

func TestTelegramNotifySendsMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "chat-42", server.URL, 5*time.Second, zerolog.Nop())
	if err := notifier.Notify(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotPayload["chat_id"] != "chat-42" {
		t.Fatalf("unexpected chat id: %s", gotPayload["chat_id"])
	}
	text := gotPayload["text"]
	for _, want := range []string{"[Claim Fraud Scan]", "Threshold: 200%", "Alerts: 3 across 2 providers", "Smith Clinic", "critical"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}
}

func TestTelegramNotifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "chat-42", server.URL, 5*time.Second, zerolog.Nop())
	if err := notifier.Notify(context.Background(), sampleNotification()); err == nil {
		t.Fatal("expected error on 400 response")
	}
}

func TestTelegramNotifyOkFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "chat-42", server.URL, 5*time.Second, zerolog.Nop())
	if err := notifier.Notify(context.Background(), sampleNotification()); err == nil {
		t.Fatal("expected error on ok=false response")
	}
}
