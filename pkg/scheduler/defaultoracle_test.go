package scheduler

import "testing"

func TestHistoryOracleSameDayIsForbidden(t *testing.T) {
	history := map[string]map[string][]int{
		"Cabin1": {"Swim": {10}},
	}
	o := NewHistoryOracle(history, 10, DefaultHistoryOracleConfig())

	if got := o.Score("Cabin1", "Swim", 0); got != PosInf {
		t.Fatalf("expected same-day repeat to score PosInf, got %d", got)
	}
}

func TestHistoryOracleNeverDoneIsBonus(t *testing.T) {
	o := NewHistoryOracle(map[string]map[string][]int{}, 10, DefaultHistoryOracleConfig())

	got := o.Score("Cabin1", "Archery", 0)
	if got >= 0 {
		t.Fatalf("expected never-done bonus to be negative, got %d", got)
	}
}

func TestHistoryOracleMonotoneByRecency(t *testing.T) {
	cfg := DefaultHistoryOracleConfig()
	var scores []int
	for daysSince := 1; daysSince <= 10; daysSince++ {
		history := map[string]map[string][]int{
			"Cabin1": {"Swim": {10 - daysSince}},
		}
		o := NewHistoryOracle(history, 10, cfg)
		scores = append(scores, o.Score("Cabin1", "Swim", 0))
	}

	if idx, ok := AssertMonotoneByRecency(scores); !ok {
		t.Fatalf("expected monotone non-increasing-penalty curve, violation at index %d: %v", idx, scores)
	}
}

func TestHistoryOracleFrequencyPenalizesAboveAverage(t *testing.T) {
	history := map[string]map[string][]int{
		"Cabin1": {"Swim": {1, 2, 3, 4, 5}},
		"Cabin2": {"Swim": {1}},
	}
	o := NewHistoryOracle(history, 20, DefaultHistoryOracleConfig())

	above := o.Score("Cabin1", "Swim", 0)
	below := o.Score("Cabin2", "Swim", 0)

	if above <= below {
		t.Fatalf("expected above-average bunk to score worse than below-average peer: above=%d below=%d", above, below)
	}
}
