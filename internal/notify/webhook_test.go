package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhook_SendsContentPayload(t *testing.T) {
	var gotContent, gotType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		gotContent = payload["content"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	wh := NewWebhook()
	if err := wh.Send(context.Background(), ts.URL, "hello"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if gotType != "application/json" {
		t.Fatalf("want application/json, got %q", gotType)
	}
	if gotContent != "hello" {
		t.Fatalf("payload not as expected: %q", gotContent)
	}
}

func TestWebhook_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	wh := NewWebhook()
	if err := wh.Send(context.Background(), ts.URL, "x"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestWebhook_EmptyURL(t *testing.T) {
	wh := NewWebhook()
	if err := wh.Send(context.Background(), "", "x"); err == nil {
		t.Fatalf("expected error on empty webhook URL")
	}
}

func TestDownMessage(t *testing.T) {
	code := 503
	msg := DownMessage("https://example.com", &code, nil)
	if !strings.Contains(msg, "https://example.com") || !strings.Contains(msg, "503") {
		t.Fatalf("status message wrong: %q", msg)
	}

	errText := "dial tcp: i/o timeout"
	msg = DownMessage("https://example.com", nil, &errText)
	if !strings.Contains(msg, errText) {
		t.Fatalf("error message wrong: %q", msg)
	}
}
