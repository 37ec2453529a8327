// Package service orchestrates fetching, aggregation, and caching for
// the CLI commands. It owns the policy decisions: what runs
// concurrently, what is cached, and which upstream failures are fatal
// versus degraded.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/cursorwatch/internal/cache"
	"github.com/blackwell-systems/cursorwatch/internal/config"
	"github.com/blackwell-systems/cursorwatch/internal/cursor"
	"github.com/blackwell-systems/cursorwatch/internal/logger"
	"github.com/blackwell-systems/cursorwatch/internal/metrics"
)

// Service wires the API client, the ephemeral cache, and configuration
// together. Construct one per process; it is safe for concurrent use.
type Service struct {
	client *cursor.Client
	cache  *cache.Cache
	cfg    *config.Config
	now    func() time.Time
}

// New returns a Service backed by the given client and cache.
func New(client *cursor.Client, c *cache.Cache, cfg *config.Config) *Service {
	return &Service{client: client, cache: c, cfg: cfg, now: time.Now}
}

// TeamMembers returns the team roster, served from the cache when a
// fresh copy exists. The roster changes slowly, so a short TTL is
// enough to absorb repeated invocations.
func (s *Service) TeamMembers(ctx context.Context) ([]cursor.TeamMember, error) {
	key := cache.Key("team_members", nil)
	if v, ok := s.cache.Get(key); ok {
		return v.([]cursor.TeamMember), nil
	}

	members, err := s.client.TeamMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching team members: %w", err)
	}
	s.cache.Set(key, members, s.cfg.RosterCacheTTL())
	return members, nil
}

// UsageAggregates fetches daily usage rows for the given date range,
// folds them into per-user aggregates, and backfills names and roles
// from the roster. Rows and roster are fetched concurrently. A roster
// failure is not fatal: the aggregates are still correct, they just
// lack display names.
func (s *Service) UsageAggregates(ctx context.Context, from, to time.Time) ([]*metrics.Aggregate, error) {
	var (
		rows    []cursor.RawUsageRow
		members []cursor.TeamMember
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.client.DailyUsage(gctx, from, to)
		if err != nil {
			return fmt.Errorf("fetching daily usage: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = s.TeamMembers(gctx)
		if err != nil {
			logger.Warn("roster unavailable, aggregates will lack names", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aggs := metrics.Fold(rows)

	if len(members) > 0 {
		byEmail := make(map[string]cursor.TeamMember, len(members))
		for _, m := range members {
			byEmail[m.Email] = m
		}
		for _, agg := range aggs {
			if m, ok := byEmail[agg.UserEmail]; ok {
				agg.UserName = m.Name
				agg.Role = m.Role
			}
		}
	}

	return aggs, nil
}

// InactiveUsers returns the users with no activity in the trailing
// window of the given length in days.
func (s *Service) InactiveUsers(ctx context.Context, days int) ([]*metrics.Aggregate, error) {
	if days <= 0 {
		days = s.cfg.InactiveDays
	}
	now := s.now()
	from := now.AddDate(0, 0, -days)

	aggs, err := s.UsageAggregates(ctx, from, now)
	if err != nil {
		return nil, err
	}
	return metrics.Inactive(aggs, days, now), nil
}

// UsageEvents returns individual model-request events for the range.
func (s *Service) UsageEvents(ctx context.Context, from, to time.Time) ([]cursor.UsageEvent, error) {
	events, err := s.client.UsageEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching usage events: %w", err)
	}
	return events, nil
}

// Spending returns the team spending summary for the range.
func (s *Service) Spending(ctx context.Context, from, to time.Time) (*cursor.Spending, error) {
	sp, err := s.client.SpendingData(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching spending data: %w", err)
	}
	return sp, nil
}

// ConnectionStatus describes the result of a connectivity probe.
type ConnectionStatus struct {
	OK        bool   `json:"ok"`
	BaseURL   string `json:"baseUrl"`
	OrgID     string `json:"orgId,omitempty"`
	UserCount int    `json:"userCount"`
}

// CheckConnection probes the API with a roster fetch and reports what
// it found. The cache is bypassed so the probe reflects the live API,
// not a stale hit.
func (s *Service) CheckConnection(ctx context.Context) (*ConnectionStatus, error) {
	members, err := s.client.TeamMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("connection check failed: %w", err)
	}
	return &ConnectionStatus{
		OK:        true,
		BaseURL:   s.cfg.BaseURL,
		OrgID:     s.cfg.OrgID,
		UserCount: len(members),
	}, nil
}
