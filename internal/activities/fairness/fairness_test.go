package fairness

import (
	"math"
	"testing"

	"paddock/pkg/config"
	"paddock/pkg/model"
)

func entry(phone, name string, points int) model.WorkloadEntry {
	return model.WorkloadEntry{
		StableID:    "stable-1",
		MemberPhone: phone,
		MemberName:  name,
		Points:      points,
		Source:      config.WorkloadSourceActivity,
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute_EmptyLedger(t *testing.T) {
	report := Compute("stable-1", nil)

	if report.StableID != "stable-1" {
		t.Errorf("StableID = %s, want stable-1", report.StableID)
	}
	if report.TotalPoints != 0 || report.MeanPoints != 0 {
		t.Errorf("empty ledger produced totals: %d points, mean %f", report.TotalPoints, report.MeanPoints)
	}
	if len(report.Members) != 0 {
		t.Errorf("empty ledger produced %d members", len(report.Members))
	}
}

func TestCompute_AggregatesPerMember(t *testing.T) {
	entries := []model.WorkloadEntry{
		entry("+14155551001", "Alex", 3),
		entry("+14155551002", "Brook", 1),
		entry("+14155551001", "Alex", 3),
		entry("+14155551003", "Casey", 2),
	}

	report := Compute("stable-1", entries)

	if report.TotalPoints != 9 {
		t.Errorf("TotalPoints = %d, want 9", report.TotalPoints)
	}
	if !approxEqual(report.MeanPoints, 3.0) {
		t.Errorf("MeanPoints = %f, want 3.0", report.MeanPoints)
	}

	if len(report.Members) != 3 {
		t.Fatalf("got %d members, want 3", len(report.Members))
	}

	// Ordered by points descending.
	if report.Members[0].MemberPhone != "+14155551001" || report.Members[0].Points != 6 {
		t.Errorf("top member = %s with %d points, want +14155551001 with 6",
			report.Members[0].MemberPhone, report.Members[0].Points)
	}

	// Index: 6/3 = 2.0, 2/3, 1/3.
	if !approxEqual(report.Members[0].Index, 2.0) {
		t.Errorf("top index = %f, want 2.0", report.Members[0].Index)
	}
	if !approxEqual(report.Members[1].Index, 2.0/3.0) {
		t.Errorf("second index = %f, want 2/3", report.Members[1].Index)
	}
}

func TestCompute_TieOrderIsStable(t *testing.T) {
	entries := []model.WorkloadEntry{
		entry("+14155551002", "Brook", 2),
		entry("+14155551001", "Alex", 2),
	}

	for i := 0; i < 5; i++ {
		report := Compute("stable-1", entries)
		if report.Members[0].MemberPhone != "+14155551001" {
			t.Fatalf("run %d: tie broken as %s, want +14155551001 first", i, report.Members[0].MemberPhone)
		}
	}
}

func TestCompute_ZeroTotalYieldsZeroIndexes(t *testing.T) {
	// Reservation debits can cancel out activity credits entirely.
	entries := []model.WorkloadEntry{
		entry("+14155551001", "Alex", 2),
		entry("+14155551001", "Alex", -2),
		entry("+14155551002", "Brook", 0),
	}

	report := Compute("stable-1", entries)

	if report.TotalPoints != 0 {
		t.Errorf("TotalPoints = %d, want 0", report.TotalPoints)
	}
	for _, member := range report.Members {
		if member.Index != 0 {
			t.Errorf("member %s index = %f, want 0", member.MemberPhone, member.Index)
		}
	}
}
