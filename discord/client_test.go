package discord

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return &Client{
		Token:   "test-token",
		BaseURL: url,
		HTTP:    http.DefaultClient,
		Sleep:   func(time.Duration) {},
	}
}

func TestGetRetriesAfterRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{"message": "You are being rate limited.", "retry_after": 0.01})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "123"})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	var waited time.Duration
	c.Sleep = func(d time.Duration) { waited += d }

	var out struct {
		ID string `json:"id"`
	}
	if err := c.Get("/channels/123", &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out.ID != "123" {
		t.Errorf("id = %q, want %q", out.ID, "123")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if waited != 10*time.Millisecond {
		t.Errorf("waited = %v, want 10ms", waited)
	}
}

func TestGetRateLimitRetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"retry_after": 0.001})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.MaxAttempts = 3
	if err := c.Get("/guilds/1/channels", nil); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestGetSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.Get("/channels/missing", nil); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestGetSendsAuthHeaders(t *testing.T) {
	var auth, ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.Get("/users/@me", nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if auth != "Bot test-token" {
		t.Errorf("Authorization = %q, want %q", auth, "Bot test-token")
	}
	if ua == "" {
		t.Error("User-Agent header missing")
	}
}

func TestPostRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "9"})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	var out struct {
		ID string `json:"id"`
	}
	if err := c.Post("/channels/1/messages", map[string]string{"content": "hi"}, &out); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if out.ID != "9" {
		t.Errorf("id = %q, want %q", out.ID, "9")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestPostGivesUpAfterRepeatedFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.Post("/channels/1/messages", map[string]string{"content": "hi"}, nil); err == nil {
		t.Fatal("expected error after repeated failures")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWait(t *testing.T) {
	cases := []struct {
		body string
		want time.Duration
	}{
		{`{"message":"rate limited","retry_after":1.5}`, 1500 * time.Millisecond},
		{`{"retry_after":0.25}`, 250 * time.Millisecond},
		{`not json`, defaultRetryWait},
		{`{}`, defaultRetryWait},
	}
	for _, tc := range cases {
		if got := retryWait([]byte(tc.body)); got != tc.want {
			t.Errorf("retryWait(%q) = %v, want %v", tc.body, got, tc.want)
		}
	}
}
