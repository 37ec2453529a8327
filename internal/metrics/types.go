// Package metrics folds raw daily usage rows into per-user aggregates,
// computes derived scores, and classifies inactive license holders.
// Every function here is total over its input: malformed or missing
// data degrades to zeros, never to an error.
package metrics

// Aggregate is the per-user rollup produced by Fold. Exactly one
// Aggregate exists per email within a run, regardless of how many rows
// reference that email. It lives for the duration of a single request
// and is never persisted.
type Aggregate struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName,omitempty"`
	Role      string `json:"role,omitempty"`

	ComposerRequests         int64 `json:"composerRequests"`
	ChatRequests             int64 `json:"chatRequests"`
	AgentRequests            int64 `json:"agentRequests"`
	CmdkUsages               int64 `json:"cmdkUsages"`
	SubscriptionIncludedReqs int64 `json:"subscriptionIncludedReqs"`
	APIKeyReqs               int64 `json:"apiKeyReqs"`
	UsageBasedReqs           int64 `json:"usageBasedReqs"`
	BugbotUsages             int64 `json:"bugbotUsages"`

	TotalLinesAdded      int64 `json:"totalLinesAdded"`
	TotalLinesDeleted    int64 `json:"totalLinesDeleted"`
	AcceptedLinesAdded   int64 `json:"acceptedLinesAdded"`
	AcceptedLinesDeleted int64 `json:"acceptedLinesDeleted"`

	TotalApplies      int64 `json:"totalApplies"`
	TotalAccepts      int64 `json:"totalAccepts"`
	TotalRejects      int64 `json:"totalRejects"`
	TotalTabsAccepted int64 `json:"totalTabsAccepted"`
	TotalTabsShown    int64 `json:"totalTabsShown"`

	// ActiveDays counts rows whose activity predicate was true.
	ActiveDays int `json:"activeDays"`

	// LastActiveAt is the maximum row date among active rows, kept in
	// the upstream's loose string form (epoch-millis digits here, but
	// classification also accepts ISO-8601 from other data paths).
	// Empty means never active.
	LastActiveAt string `json:"lastActiveAt,omitempty"`

	// Despite the names these are "last non-empty value seen", not a
	// per-user frequency mode; see Fold.
	MostUsedModel          string `json:"mostUsedModel,omitempty"`
	ApplyMostUsedExtension string `json:"applyMostUsedExtension,omitempty"`
	TabMostUsedExtension   string `json:"tabMostUsedExtension,omitempty"`

	TotalRequests int64 `json:"totalRequests"`

	// Derived scores, computed once after folding. Both are integers
	// in [0, 100].
	AcceptanceRate    int `json:"acceptanceRate"`
	ProductivityScore int `json:"productivityScore"`
}

// Summary is the team-wide rollup shown above the per-user tables.
type Summary struct {
	Users                int     `json:"users"`
	ActiveUsers          int     `json:"activeUsers"`
	TotalRequests        int64   `json:"totalRequests"`
	AcceptedLinesAdded   int64   `json:"acceptedLinesAdded"`
	AvgAcceptanceRate    float64 `json:"avgAcceptanceRate"`
	AvgProductivityScore float64 `json:"avgProductivityScore"`
}
