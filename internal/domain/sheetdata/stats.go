package sheetdata

import "math"

// ComputeStats aggregates records in a single pass.
func ComputeStats(records []ClientRecord) DashboardStats {
	stats := DashboardStats{TotalClients: len(records)}
	for _, rec := range records {
		stats.TotalHeadshots = addClamped(stats.TotalHeadshots, rec.Headshots)
		stats.TotalRevenue = addClamped(stats.TotalRevenue, rec.Price)
		if rec.Status == StatusCompleted {
			stats.CompletedProjects++
		}
		if rec.Status.Open() {
			stats.PendingEmails++
		}
	}
	return stats
}

// TotalRevenue sums the price of every record.
func TotalRevenue(records []ClientRecord) int {
	total := 0
	for _, rec := range records {
		total = addClamped(total, rec.Price)
	}
	return total
}

// addClamped adds b to a, saturating at the int range instead of wrapping.
func addClamped(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// FilterByStatus returns the records whose status is one of statuses, in order.
// With no statuses every record is returned.
func FilterByStatus(records []ClientRecord, statuses ...Status) []ClientRecord {
	if len(statuses) == 0 {
		return records
	}
	out := make([]ClientRecord, 0, len(records))
	for _, rec := range records {
		for _, st := range statuses {
			if rec.Status == st {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
