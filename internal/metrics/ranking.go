package metrics

import "sort"

// TopBottomByRequests sorts aggregates descending by total requests
// and returns the top and bottom n. The sort is stable, so ties keep
// their input (first-seen) order. Both slices share the descending
// orientation; with fewer than 2n users the slices overlap rather
// than truncate each other.
func TopBottomByRequests(aggs []*Aggregate, n int) (top, bottom []*Aggregate) {
	if n <= 0 || len(aggs) == 0 {
		return nil, nil
	}

	sorted := make([]*Aggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalRequests > sorted[j].TotalRequests
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n], sorted[len(sorted)-n:]
}

// Summarize computes the team-wide rollup over a set of aggregates.
func Summarize(aggs []*Aggregate) Summary {
	s := Summary{Users: len(aggs)}
	if len(aggs) == 0 {
		return s
	}

	var rateSum, scoreSum float64
	for _, agg := range aggs {
		s.TotalRequests += agg.TotalRequests
		s.AcceptedLinesAdded += agg.AcceptedLinesAdded
		if agg.ActiveDays > 0 {
			s.ActiveUsers++
		}
		rateSum += float64(agg.AcceptanceRate)
		scoreSum += float64(agg.ProductivityScore)
	}
	s.AvgAcceptanceRate = rateSum / float64(len(aggs))
	s.AvgProductivityScore = scoreSum / float64(len(aggs))
	return s
}
