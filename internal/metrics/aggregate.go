package metrics

import (
	"math"
	"strconv"

	"github.com/blackwell-systems/cursorwatch/internal/cursor"
)

// Fold collapses raw per-day rows into one Aggregate per email and
// computes the derived scores. Rows with an empty email have no join
// key and are dropped silently. Output order is first-seen order of
// emails, so downstream stable sorts break ties deterministically.
//
// The three "most used" fields keep the last non-empty value in row
// iteration order, not the most frequent one. That matches the
// upstream dashboard's behavior; a true mode would need a per-user
// histogram and has never been what the product shipped.
func Fold(rows []cursor.RawUsageRow) []*Aggregate {
	byEmail := make(map[string]*Aggregate)
	lastActive := make(map[string]int64)
	var order []*Aggregate

	for _, row := range rows {
		if row.Email == "" {
			continue
		}

		agg, ok := byEmail[row.Email]
		if !ok {
			agg = &Aggregate{UserEmail: row.Email}
			byEmail[row.Email] = agg
			order = append(order, agg)
		}

		agg.ComposerRequests += row.ComposerRequests.Int()
		agg.ChatRequests += row.ChatRequests.Int()
		agg.AgentRequests += row.AgentRequests.Int()
		agg.CmdkUsages += row.CmdkUsages.Int()
		agg.SubscriptionIncludedReqs += row.SubscriptionIncludedReqs.Int()
		agg.APIKeyReqs += row.APIKeyReqs.Int()
		agg.UsageBasedReqs += row.UsageBasedReqs.Int()
		agg.BugbotUsages += row.BugbotUsages.Int()

		agg.TotalLinesAdded += row.TotalLinesAdded.Int()
		agg.TotalLinesDeleted += row.TotalLinesDeleted.Int()
		agg.AcceptedLinesAdded += row.AcceptedLinesAdded.Int()
		agg.AcceptedLinesDeleted += row.AcceptedLinesDeleted.Int()

		agg.TotalApplies += row.TotalApplies.Int()
		agg.TotalAccepts += row.TotalAccepts.Int()
		agg.TotalRejects += row.TotalRejects.Int()
		agg.TotalTabsAccepted += row.TotalTabsAccepted.Int()
		agg.TotalTabsShown += row.TotalTabsShown.Int()

		// The engine does not deduplicate across request categories;
		// it is only as double-count-free as the upstream data.
		agg.TotalRequests += row.ChatRequests.Int() +
			row.ComposerRequests.Int() +
			row.AgentRequests.Int() +
			row.SubscriptionIncludedReqs.Int() +
			row.APIKeyReqs.Int() +
			row.UsageBasedReqs.Int() +
			row.BugbotUsages.Int() +
			row.Requests.Int() +
			row.RequestCount.Int() +
			row.TotalRequestsRaw.Int()

		if rowActive(row) {
			agg.ActiveDays++
			if date := row.Date.Int(); date > 0 && date > lastActive[row.Email] {
				lastActive[row.Email] = date
			}
		}

		if row.MostUsedModel != "" {
			agg.MostUsedModel = row.MostUsedModel
		}
		if row.ApplyMostUsedExtension != "" {
			agg.ApplyMostUsedExtension = row.ApplyMostUsedExtension
		}
		if row.TabMostUsedExtension != "" {
			agg.TabMostUsedExtension = row.TabMostUsedExtension
		}
	}

	for _, agg := range order {
		if ts := lastActive[agg.UserEmail]; ts > 0 {
			agg.LastActiveAt = strconv.FormatInt(ts, 10)
		}
		finalize(agg)
	}

	return order
}

// rowActive is the activity predicate: the upstream isActive flag, or
// any request counter, accepted/added lines, or shown tabs above zero.
func rowActive(row cursor.RawUsageRow) bool {
	if row.IsActive.Bool() {
		return true
	}
	counters := []int64{
		row.ComposerRequests.Int(),
		row.ChatRequests.Int(),
		row.AgentRequests.Int(),
		row.CmdkUsages.Int(),
		row.SubscriptionIncludedReqs.Int(),
		row.APIKeyReqs.Int(),
		row.UsageBasedReqs.Int(),
		row.BugbotUsages.Int(),
		row.AcceptedLinesAdded.Int(),
		row.TotalLinesAdded.Int(),
		row.TotalTabsShown.Int(),
	}
	for _, c := range counters {
		if c > 0 {
			return true
		}
	}
	return false
}

// finalize computes the derived scores as pure functions of the folded
// counters. The constants are product decisions carried over from the
// dashboard and must not drift:
//
//   - acceptanceRate:  round(tabsAccepted / tabsShown * 100), 0 when
//     no tabs were shown.
//   - productivityScore: 0 when totalRequests is 0, otherwise
//     min(100, round(acceptedLinesAdded*0.01 + acceptanceRate*0.3 +
//     min(activeDays*5, 30))): accepted-line volume scaled down
//     heavily, 30% weight on tab acceptance, and up to 30 points for
//     active days (capped at 6 days).
func finalize(agg *Aggregate) {
	if agg.TotalTabsShown > 0 {
		rate := float64(agg.TotalTabsAccepted) / float64(agg.TotalTabsShown) * 100
		agg.AcceptanceRate = int(math.Min(100, math.Round(rate)))
	}

	if agg.TotalRequests == 0 {
		agg.ProductivityScore = 0
		return
	}

	dayPoints := math.Min(float64(agg.ActiveDays)*5, 30)
	score := float64(agg.AcceptedLinesAdded)*0.01 +
		float64(agg.AcceptanceRate)*0.3 +
		dayPoints
	agg.ProductivityScore = int(math.Min(100, math.Round(score)))
}
