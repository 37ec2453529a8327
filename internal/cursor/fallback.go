package cursor

import (
	"context"
	"net/http"
	"time"

	"github.com/blackwell-systems/cursorwatch/internal/logger"
)

// Endpoint candidates, current path first, older path second. The
// search tries each endpoint with each payload shape in order and
// stops at the first success. Candidates are never raced in parallel:
// speculative concurrent requests would amplify load against an
// upstream whose behavior is already uncertain.
var (
	dailyUsageEndpoints = []string{"/teams/daily-usage-data", "/teams/usage/daily"}
	usageEventEndpoints = []string{"/teams/filtered-usage-events", "/teams/usage/events"}
)

const (
	teamMembersPath = "/teams/members"
	spendingPath    = "/teams/spending-data"
)

const isoDate = "2006-01-02"

// dateBodies returns the candidate request payloads for a date-ranged
// POST, in the fixed order the search tries them: epoch-millis
// startDate/endDate, ISO startDate/endDate, empty body, ISO from/to.
func dateBodies(from, to time.Time) []map[string]any {
	return []map[string]any{
		{"startDate": from.UnixMilli(), "endDate": to.UnixMilli()},
		{"startDate": from.Format(isoDate), "endDate": to.Format(isoDate)},
		{},
		{"from": from.Format(isoDate), "to": to.Format(isoDate)},
	}
}

// eventBodies is dateBodies with pagination on the primary shape. The
// fallback shapes stay minimal; older deployments reject unknown keys.
func eventBodies(from, to time.Time) []map[string]any {
	bodies := dateBodies(from, to)
	bodies[0]["page"] = 1
	bodies[0]["pageSize"] = 100
	return bodies
}

// MaxAttempts is the size of the largest endpoint and payload candidate
// sweep a single call can make. Callers budgeting an overall deadline
// for one operation should allow this many per-request timeouts.
func MaxAttempts() int {
	endpoints := len(dailyUsageEndpoints)
	if len(usageEventEndpoints) > endpoints {
		endpoints = len(usageEventEndpoints)
	}
	return endpoints * len(dateBodies(time.Time{}, time.Time{}))
}

// postFallback tries every (endpoint, payload) combination in order
// and returns the first successful response body. Per-candidate
// failures are recorded and the search continues; a cancelled or
// expired context stops the whole search, so callers can bound the
// worst case (sum of all candidate timeouts) with a deadline.
func (c *Client) postFallback(ctx context.Context, endpoints []string, payloads []map[string]any) ([]byte, error) {
	attempts := 0
	var last error

	for _, endpoint := range endpoints {
		for _, payload := range payloads {
			attempts++
			body, err := c.do(ctx, http.MethodPost, endpoint, payload)
			if err == nil {
				logger.Debug("endpoint candidate succeeded",
					"endpoint", endpoint, "attempt", attempts)
				return body, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug("endpoint candidate failed",
				"endpoint", endpoint, "attempt", attempts, "error", err)
			last = err
		}
	}

	return nil, &FallbackError{Attempts: attempts, Last: last}
}

// DailyUsage fetches per-user, per-day usage rows for the given date
// range, trying endpoint and payload candidates until one succeeds.
func (c *Client) DailyUsage(ctx context.Context, from, to time.Time) ([]RawUsageRow, error) {
	body, err := c.postFallback(ctx, dailyUsageEndpoints, dateBodies(from, to))
	if err != nil {
		return nil, err
	}
	return decodeRows(body)
}

// UsageEvents fetches individual model-request events for the given
// date range, with the same fallback search as DailyUsage.
func (c *Client) UsageEvents(ctx context.Context, from, to time.Time) ([]UsageEvent, error) {
	body, err := c.postFallback(ctx, usageEventEndpoints, eventBodies(from, to))
	if err != nil {
		return nil, err
	}
	return decodeEvents(body)
}

// TeamMembers fetches the team roster. The members endpoint has been
// stable across deployments, so there is no fallback search; callers
// are expected to cache the result (the roster changes slowly).
func (c *Client) TeamMembers(ctx context.Context) ([]TeamMember, error) {
	body, err := c.do(ctx, http.MethodGet, teamMembersPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeMembers(body)
}

// SpendingData fetches the team spending summary for the given range.
func (c *Client) SpendingData(ctx context.Context, from, to time.Time) (*Spending, error) {
	payload := map[string]any{
		"startDate": from.UnixMilli(),
		"endDate":   to.UnixMilli(),
	}
	body, err := c.do(ctx, http.MethodPost, spendingPath, payload)
	if err != nil {
		return nil, err
	}
	return decodeSpending(body)
}
