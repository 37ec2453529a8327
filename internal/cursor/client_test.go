package cursor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var testRange = struct{ from, to time.Time }{
	from: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	to:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", WithBaseURL(srv.URL), WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClient_EmptyKey(t *testing.T) {
	if _, err := NewClient(""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestDailyUsage_BasicAuthHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))

	if _, err := client.DailyUsage(context.Background(), testRange.from, testRange.to); err != nil {
		t.Fatalf("DailyUsage: %v", err)
	}

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:"))
	if gotAuth != want {
		t.Errorf("Authorization = %q, want %q", gotAuth, want)
	}
}

func TestDailyUsage_FallbackStopsAtFirstSuccess(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data": [{"email": "a@x.com", "chatRequests": 3}]}`))
	}))

	rows, err := client.DailyUsage(context.Background(), testRange.from, testRange.to)
	if err != nil {
		t.Fatalf("DailyUsage: %v", err)
	}
	if len(rows) != 1 || rows[0].Email != "a@x.com" {
		t.Fatalf("rows = %+v", rows)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("made %d requests, want 2 (first success stops the search)", got)
	}
}

func TestDailyUsage_PayloadCandidateOrder(t *testing.T) {
	var bodies []map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		http.Error(w, "nope", http.StatusBadRequest)
	}))

	_, err := client.DailyUsage(context.Background(), testRange.from, testRange.to)
	var fe *FallbackError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FallbackError, got %v", err)
	}

	// 2 endpoints x 4 payload shapes.
	if fe.Attempts != 8 || len(bodies) != 8 {
		t.Fatalf("attempts = %d, bodies = %d, want 8", fe.Attempts, len(bodies))
	}

	// First shape: epoch millis.
	if _, ok := bodies[0]["startDate"].(float64); !ok {
		t.Errorf("candidate 1 startDate = %v, want epoch millis number", bodies[0]["startDate"])
	}
	// Second shape: ISO strings.
	if s, ok := bodies[1]["startDate"].(string); !ok || s != "2025-01-01" {
		t.Errorf("candidate 2 startDate = %v, want \"2025-01-01\"", bodies[1]["startDate"])
	}
	// Third shape: empty body.
	if len(bodies[2]) != 0 {
		t.Errorf("candidate 3 body = %v, want empty", bodies[2])
	}
	// Fourth shape: from/to.
	if s, ok := bodies[3]["from"].(string); !ok || s != "2025-01-01" {
		t.Errorf("candidate 4 from = %v, want \"2025-01-01\"", bodies[3]["from"])
	}
}

func TestDailyUsage_ExhaustedCarriesLastError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.DailyUsage(context.Background(), testRange.from, testRange.to)

	var fe *FallbackError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FallbackError, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(fe.Last, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Last = %v, want APIError with 404", fe.Last)
	}
}

func TestDailyUsage_ErrorSummaryOmitsResponseBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream stack trace with internal detail", http.StatusBadGateway)
	}))

	_, err := client.DailyUsage(context.Background(), testRange.from, testRange.to)

	var fe *FallbackError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FallbackError, got %v", err)
	}
	if fe.Attempts != MaxAttempts() {
		t.Errorf("attempts = %d, want MaxAttempts() = %d", fe.Attempts, MaxAttempts())
	}

	// Error keeps the body for logs; Summary strips it for users.
	if !strings.Contains(fe.Error(), "upstream stack trace") {
		t.Errorf("Error() = %q, should keep the body for logging", fe.Error())
	}
	summary := fe.Summary()
	if strings.Contains(summary, "upstream stack trace") {
		t.Errorf("Summary() = %q, must not include the response body", summary)
	}
	if !strings.Contains(summary, "502") {
		t.Errorf("Summary() = %q, should still name the status", summary)
	}

	var apiErr *APIError
	if !errors.As(fe.Last, &apiErr) {
		t.Fatalf("Last = %v, want APIError", fe.Last)
	}
	if strings.Contains(apiErr.Summary(), "upstream stack trace") {
		t.Errorf("APIError.Summary() = %q, must not include the response body", apiErr.Summary())
	}
}

func TestDailyUsage_ContextDeadlineBoundsSearch(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "slow failure", http.StatusBadGateway)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.DailyUsage(ctx, testRange.from, testRange.to)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got > 1 {
		t.Errorf("made %d requests after cancellation, want at most 1", got)
	}
}

func TestUsageEvents_FirstCandidateCarriesPagination(t *testing.T) {
	var first map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first == nil {
			_ = json.NewDecoder(r.Body).Decode(&first)
		}
		_, _ = w.Write([]byte(`{"usageEvents": [{"userEmail": "a@x.com"}]}`))
	}))

	events, err := client.UsageEvents(context.Background(), testRange.from, testRange.to)
	if err != nil {
		t.Fatalf("UsageEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %+v", events)
	}
	if first["page"] != float64(1) || first["pageSize"] != float64(100) {
		t.Errorf("first candidate body = %v, want page/pageSize set", first)
	}
}

func TestTeamMembers_SingleEndpointNoFallback(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"teamMembers": [{"email": "ada@x.com", "name": "Ada", "role": "developer"}]}`))
	}))

	members, err := client.TeamMembers(context.Background())
	if err != nil {
		t.Fatalf("TeamMembers: %v", err)
	}
	if len(members) != 1 || members[0].Name != "Ada" {
		t.Fatalf("members = %+v", members)
	}
	if len(paths) != 1 || paths[0] != "GET /teams/members" {
		t.Errorf("paths = %v", paths)
	}
}

func TestSpendingData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/spending-data" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"totalSpent": 412.5, "currency": "USD", "breakdown": {"usageBased": 300, "subscription": 112.5}}`))
	}))

	spending, err := client.SpendingData(context.Background(), testRange.from, testRange.to)
	if err != nil {
		t.Fatalf("SpendingData: %v", err)
	}
	if spending.TotalSpent != 412.5 || spending.Breakdown.UsageBased != 300 {
		t.Errorf("spending = %+v", spending)
	}
}
