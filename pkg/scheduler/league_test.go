package scheduler

import "testing"

func TestGenerateRoundRobinEverPairPlaysOnce(t *testing.T) {
	teams := []string{"A", "B", "C", "D"}
	matchups := GenerateRoundRobin(teams)

	seen := make(map[[2]string]bool)
	for _, m := range matchups {
		if m.Home == "" || m.Away == "" {
			t.Fatalf("bye sentinel leaked into a matchup: %+v", m)
		}
		key := [2]string{m.Home, m.Away}
		rev := [2]string{m.Away, m.Home}
		if seen[key] || seen[rev] {
			t.Fatalf("pair %v played more than once", key)
		}
		seen[key] = true
	}

	want := len(teams) * (len(teams) - 1) / 2
	if len(matchups) != want {
		t.Fatalf("expected %d matchups for %d teams, got %d", want, len(teams), len(matchups))
	}
}

func TestGenerateRoundRobinOddTeamsSkipsBye(t *testing.T) {
	teams := []string{"A", "B", "C"}
	matchups := GenerateRoundRobin(teams)

	for _, m := range matchups {
		if m.Home == "" || m.Away == "" {
			t.Fatalf("bye sentinel leaked into a matchup: %+v", m)
		}
	}
	want := len(teams) * (len(teams) - 1) / 2
	if len(matchups) != want {
		t.Fatalf("expected %d matchups for %d odd teams, got %d", want, len(teams), len(matchups))
	}
}

func TestSeedLeagueTimeIndexInsertsUsageNotBlocks(t *testing.T) {
	ti := NewTimeIndex()
	matchups := []Matchup{{Home: "Cabin1", Away: "Cabin2"}}
	iv := interval{Start: 540, End: 600}

	SeedLeagueTimeIndex(ti, matchups, "Diamond", iv, "Juniors")

	if got := ti.Usage("Diamond", iv, ""); got != 2 {
		t.Fatalf("expected league usage of 2 (home+away), got %d", got)
	}
}
