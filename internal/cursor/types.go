package cursor

import (
	"strconv"
	"strings"
)

// The admin API is not consistent about scalar encodings across
// deployments: counters arrive as numbers or numeric strings, flags as
// booleans, strings, or 0/1. FlexInt64 and FlexBool absorb all of
// those; anything unrecognizable degrades to the zero value rather
// than failing the row.

// FlexInt64 is an int64 that decodes from a JSON number, a numeric
// string, or null.
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler. Malformed values decode
// to zero instead of returning an error.
func (n *FlexInt64) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = FlexInt64(f)
	return nil
}

// Int returns the value as a plain int64.
func (n FlexInt64) Int() int64 { return int64(n) }

// FlexBool is a bool that decodes from a JSON bool, a "true"/"false"
// string, or a 0/1 number.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler. Anything that is not a
// recognizable truthy value decodes to false.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(data)))
	s = strings.Trim(s, `"`)
	switch s {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

// Bool returns the value as a plain bool.
func (b FlexBool) Bool() bool { return bool(b) }

// RawUsageRow is one user's activity for one day as returned by the
// daily-usage endpoints. Any field may be absent; absent numerics are
// zero and absent strings are empty.
type RawUsageRow struct {
	Email    string    `json:"email"`
	Date     FlexInt64 `json:"date"` // epoch millis
	IsActive FlexBool  `json:"isActive"`

	ComposerRequests         FlexInt64 `json:"composerRequests"`
	ChatRequests             FlexInt64 `json:"chatRequests"`
	AgentRequests            FlexInt64 `json:"agentRequests"`
	CmdkUsages               FlexInt64 `json:"cmdkUsages"`
	SubscriptionIncludedReqs FlexInt64 `json:"subscriptionIncludedReqs"`
	APIKeyReqs               FlexInt64 `json:"apiKeyReqs"`
	UsageBasedReqs           FlexInt64 `json:"usageBasedReqs"`
	BugbotUsages             FlexInt64 `json:"bugbotUsages"`

	TotalLinesAdded      FlexInt64 `json:"totalLinesAdded"`
	TotalLinesDeleted    FlexInt64 `json:"totalLinesDeleted"`
	AcceptedLinesAdded   FlexInt64 `json:"acceptedLinesAdded"`
	AcceptedLinesDeleted FlexInt64 `json:"acceptedLinesDeleted"`

	TotalApplies      FlexInt64 `json:"totalApplies"`
	TotalAccepts      FlexInt64 `json:"totalAccepts"`
	TotalRejects      FlexInt64 `json:"totalRejects"`
	TotalTabsAccepted FlexInt64 `json:"totalTabsAccepted"`
	TotalTabsShown    FlexInt64 `json:"totalTabsShown"`

	MostUsedModel          string `json:"mostUsedModel"`
	ApplyMostUsedExtension string `json:"applyMostUsedExtension"`
	TabMostUsedExtension   string `json:"tabMostUsedExtension"`
	ClientVersion          string `json:"clientVersion"`

	// Some deployments report request totals under generic names
	// instead of (or in addition to) the per-feature counters above.
	Requests         FlexInt64 `json:"requests"`
	RequestCount     FlexInt64 `json:"requestCount"`
	TotalRequestsRaw FlexInt64 `json:"totalRequests"`
}

// TeamMember is a roster entry from the members endpoint.
type TeamMember struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TokenUsage is the per-event token breakdown.
type TokenUsage struct {
	InputTokens      FlexInt64 `json:"inputTokens"`
	OutputTokens     FlexInt64 `json:"outputTokens"`
	CacheWriteTokens FlexInt64 `json:"cacheWriteTokens"`
	CacheReadTokens  FlexInt64 `json:"cacheReadTokens"`
	TotalCents       float64   `json:"totalCents"`
}

// UsageEvent is a single model request from the usage-events endpoints.
// Timestamps arrive as epoch-millis strings.
type UsageEvent struct {
	Timestamp        FlexInt64  `json:"timestamp"`
	UserEmail        string     `json:"userEmail"`
	Model            string     `json:"model"`
	KindLabel        string     `json:"kindLabel"`
	MaxMode          FlexBool   `json:"maxMode"`
	RequestsCosts    FlexInt64  `json:"requestsCosts"`
	IsTokenBasedCall FlexBool   `json:"isTokenBasedCall"`
	IsFreeBugbot     FlexBool   `json:"isFreeBugbot"`
	TokenUsage       TokenUsage `json:"tokenUsage"`
}

// SpendingBreakdown splits team spend by billing category.
type SpendingBreakdown struct {
	UsageBased   float64 `json:"usageBased"`
	Subscription float64 `json:"subscription"`
}

// Spending is the team spending summary.
type Spending struct {
	TotalSpent float64           `json:"totalSpent"`
	Currency   string            `json:"currency"`
	Breakdown  SpendingBreakdown `json:"breakdown"`
}
