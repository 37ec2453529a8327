package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blackwell-systems/cursorwatch/internal/cache"
	"github.com/blackwell-systems/cursorwatch/internal/config"
	"github.com/blackwell-systems/cursorwatch/internal/cursor"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := cursor.NewClient("test-key", cursor.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	cfg := &config.Config{
		BaseURL:               srv.URL,
		OrgID:                 "org-123",
		RequestTimeoutSeconds: 5,
		RosterCacheTTLMinutes: 15,
		CacheMaxEntries:       16,
		InactiveDays:          30,
	}
	return New(client, cache.New(cfg.CacheMaxEntries), cfg)
}

func TestUsageAggregates_BackfillsNames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/teams/daily-usage-data", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"email":"alice@x.com","date":1735689600000,"isActive":true,"chatRequests":5},
			{"email":"stray@x.com","date":1735689600000,"chatRequests":1}
		]}`))
	})
	mux.HandleFunc("/teams/members", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"teamMembers":[{"email":"alice@x.com","name":"Alice","role":"member"}]}`))
	})

	svc := newTestService(t, mux)
	aggs, err := svc.UsageAggregates(context.Background(), time.Now().AddDate(0, 0, -30), time.Now())
	if err != nil {
		t.Fatalf("UsageAggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("got %d aggregates, want 2", len(aggs))
	}

	byEmail := map[string]string{}
	for _, a := range aggs {
		byEmail[a.UserEmail] = a.UserName
	}
	if byEmail["alice@x.com"] != "Alice" {
		t.Errorf("alice name = %q, want Alice", byEmail["alice@x.com"])
	}
	if byEmail["stray@x.com"] != "" {
		t.Errorf("stray name = %q, want empty (not on roster)", byEmail["stray@x.com"])
	}
}

func TestUsageAggregates_RosterFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/teams/daily-usage-data", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"email":"a@x.com","chatRequests":3}]}`))
	})
	mux.HandleFunc("/teams/members", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	svc := newTestService(t, mux)
	aggs, err := svc.UsageAggregates(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatalf("roster failure should not be fatal, got %v", err)
	}
	if len(aggs) != 1 || aggs[0].UserName != "" {
		t.Errorf("aggs = %+v, want one unnamed aggregate", aggs)
	}
}

func TestTeamMembers_CachedAcrossCalls(t *testing.T) {
	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/teams/members", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"teamMembers":[{"email":"a@x.com"}]}`))
	})

	svc := newTestService(t, mux)
	for i := 0; i < 3; i++ {
		if _, err := svc.TeamMembers(context.Background()); err != nil {
			t.Fatalf("TeamMembers: %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("upstream hits = %d, want 1 (cached)", got)
	}
}

func TestInactiveUsers(t *testing.T) {
	now := time.Now()
	recent := now.Add(-24 * time.Hour).UnixMilli()
	old := now.AddDate(0, -6, 0).UnixMilli()

	mux := http.NewServeMux()
	mux.HandleFunc("/teams/daily-usage-data", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"email":"fresh@x.com","date":` + itoa(recent) + `,"isActive":true,"chatRequests":2},
			{"email":"stale@x.com","date":` + itoa(old) + `,"isActive":true,"chatRequests":2},
			{"email":"never@x.com","date":` + itoa(recent) + `}
		]}`))
	})
	mux.HandleFunc("/teams/members", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"teamMembers":[]}`))
	})

	svc := newTestService(t, mux)
	inactive, err := svc.InactiveUsers(context.Background(), 30)
	if err != nil {
		t.Fatalf("InactiveUsers: %v", err)
	}

	got := map[string]bool{}
	for _, a := range inactive {
		got[a.UserEmail] = true
	}
	if len(got) != 2 || !got["stale@x.com"] || !got["never@x.com"] {
		t.Errorf("inactive = %v, want stale and never", got)
	}
}

func TestCheckConnection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/teams/members", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"teamMembers":[{"email":"a@x.com"},{"email":"b@x.com"}]}`))
	})

	svc := newTestService(t, mux)
	status, err := svc.CheckConnection(context.Background())
	if err != nil {
		t.Fatalf("CheckConnection: %v", err)
	}
	if !status.OK || status.UserCount != 2 || status.OrgID != "org-123" {
		t.Errorf("status = %+v", status)
	}
}

func TestCheckConnection_Failure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/teams/members", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	svc := newTestService(t, mux)
	if _, err := svc.CheckConnection(context.Background()); err == nil {
		t.Fatal("expected error from failed probe")
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
