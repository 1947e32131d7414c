// Package fairness aggregates workload ledger entries into a per-member
// distribution report. Like the capacity evaluator it is a pure computation
// over already-fetched records.
package fairness

import (
	"sort"

	"github.com/montanaflynn/stats"

	"paddock/pkg/model"
)

// MemberScore is one member's share of the stable's workload.
type MemberScore struct {
	MemberPhone string `json:"member_phone"`
	MemberName  string `json:"member_name"`
	Points      int    `json:"points"`

	// Index is the member's points divided by the stable mean. 1.0 means
	// an exactly fair share, above 1.0 means carrying more than their
	// share. Zero when the stable has no points at all.
	Index float64 `json:"index"`
}

// Report is the workload distribution for one stable.
type Report struct {
	StableID    string        `json:"stable_id"`
	TotalPoints int           `json:"total_points"`
	MeanPoints  float64       `json:"mean_points"`
	StdDev      float64       `json:"std_dev"`
	Members     []MemberScore `json:"members"`
}

// Compute builds the distribution report from a stable's ledger entries.
// Members are ordered by points descending, phone ascending on ties, so the
// report is stable across runs.
func Compute(stableID string, entries []model.WorkloadEntry) *Report {
	report := &Report{
		StableID: stableID,
		Members:  []MemberScore{},
	}
	if len(entries) == 0 {
		return report
	}

	totals := make(map[string]*MemberScore)
	for _, entry := range entries {
		score, ok := totals[entry.MemberPhone]
		if !ok {
			score = &MemberScore{
				MemberPhone: entry.MemberPhone,
				MemberName:  entry.MemberName,
			}
			totals[entry.MemberPhone] = score
		}
		score.Points += entry.Points
		if score.MemberName == "" {
			score.MemberName = entry.MemberName
		}
		report.TotalPoints += entry.Points
	}

	points := make([]float64, 0, len(totals))
	for _, score := range totals {
		points = append(points, float64(score.Points))
	}

	// stats errors only on empty input, which is excluded above.
	report.MeanPoints, _ = stats.Mean(points)
	report.StdDev, _ = stats.StandardDeviation(points)

	for _, score := range totals {
		if report.MeanPoints != 0 {
			score.Index = float64(score.Points) / report.MeanPoints
		}
		report.Members = append(report.Members, *score)
	}

	sort.Slice(report.Members, func(i, j int) bool {
		if report.Members[i].Points != report.Members[j].Points {
			return report.Members[i].Points > report.Members[j].Points
		}
		return report.Members[i].MemberPhone < report.Members[j].MemberPhone
	})

	return report
}
