package service

import "metalshop/internal/bom/model"

// ComputeStats counts rows per tier. MatchRate is the share of high and medium
// rows in percent, 0 for an empty list.
func ComputeStats(rows []model.Row) model.Stats {
	st := model.Stats{Total: len(rows)}
	for _, r := range rows {
		switch r.MatchConfidence {
		case model.ConfidenceHigh:
			st.High++
		case model.ConfidenceMedium:
			st.Medium++
		case model.ConfidenceLow:
			st.Low++
		default:
			st.None++
		}
	}
	if st.Total > 0 {
		st.MatchRate = float64(st.High+st.Medium) / float64(st.Total) * 100
	}
	return st
}
