package scheduler

// Matchup is one paired league game for a round.
type Matchup struct {
	Home string
	Away string
}

// GenerateRoundRobin returns the pairings for every round of a standard
// circle-method round robin over teams (SPEC_FULL.md §6.1 "thin
// generator"): fix the first team, rotate the rest. When len(teams) is
// odd, an empty-string bye pads the rotation internally and pairings
// against it are omitted from the result.
//
// Bracket seeding, standings, and multi-week scheduling are out of scope;
// this produces exactly the pairing structure needed to seed the time
// index for a single day's league blocks.
func GenerateRoundRobin(teams []string) []Matchup {
	if len(teams) < 2 {
		return nil
	}
	pool := make([]string, len(teams))
	copy(pool, teams)
	if len(pool)%2 == 1 {
		pool = append(pool, "")
	}
	n := len(pool)
	rounds := n - 1

	var matchups []Matchup
	for r := 0; r < rounds; r++ {
		for i := 0; i < n/2; i++ {
			home, away := pool[i], pool[n-1-i]
			if home == "" || away == "" {
				continue
			}
			matchups = append(matchups, Matchup{Home: home, Away: away})
		}
		// Rotate every team but the first.
		fixed := pool[0]
		rest := append([]string{}, pool[1:]...)
		rest = append(rest[len(rest)-1:], rest[:len(rest)-1]...)
		pool = append([]string{fixed}, rest...)
	}
	return matchups
}

// SeedLeagueTimeIndex inserts one time-index entry per team in each
// matchup, occupying field during iv for divName under the "league"
// activity label, so the ordinary solver sees the field as unavailable
// without any corresponding entry in sc.Blocks (spec.md §9 Open Question:
// "league entries ARE present in the time index but NOT in blocks").
func SeedLeagueTimeIndex(ti *TimeIndex, matchups []Matchup, field string, iv interval, divName string) {
	for _, m := range matchups {
		ti.Insert(field, iv, m.Home, divName, "league")
		ti.Insert(field, iv, m.Away, divName, "league")
	}
}
