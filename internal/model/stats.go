package model

// BatchStats summarizes one batch run.
type BatchStats struct {
	Total     int `json:"total"`
	Success   int `json:"success"`
	Partial   int `json:"partial"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
	Pending   int `json:"pending"`
	Skipped   int `json:"skipped"`
}

// Count increments the bucket for status.
func (s *BatchStats) Count(status Status) {
	s.Total++
	switch status {
	case StatusSuccess:
		s.Success++
	case StatusPartial:
		s.Partial++
	case StatusFailed:
		s.Failed++
	case StatusCancelled:
		s.Cancelled++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Pending++
	}
}

// EnrichedPercent returns the share of records that ended Success or
// Partial, as a percentage. Zero-record batches report zero.
func (s *BatchStats) EnrichedPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Success+s.Partial) / float64(s.Total) * 100
}

// CollectStats tallies enrichment statuses across a record set.
func CollectStats(records []*Record) BatchStats {
	var stats BatchStats
	for _, r := range records {
		stats.Count(r.EnrichmentStatus)
	}
	return stats
}
