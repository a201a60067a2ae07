package scheduler

// HistoryOracle is a reference RotationOracle (spec.md §4.3) built directly
// from a per-(bunk,activity) history of day indices already played. It is
// the oracle the CLI builds from a JSON snapshot's plain history field; a
// camp with richer rotation logic (variety weighting, staff preference)
// supplies its own RotationOracle instead.
type HistoryOracle struct {
	today    int
	played   map[rotationKey][]int
	peerAvg  map[string]float64
	cfg      HistoryOracleConfig
}

// HistoryOracleConfig tunes HistoryOracle's four required behaviors
// (spec.md §4.3: same-day forbidden, monotone-by-recency, never-done
// bonus, frequency term).
type HistoryOracleConfig struct {
	NeverDoneBonus    int
	BaseRecencyPenalty int
	RecencyStep       int
	RecencyFloor      int
	FrequencyWeight   float64
}

// DefaultHistoryOracleConfig mirrors the weights DefaultSolverConfig uses
// elsewhere in the engine: a same-order-of-magnitude recency curve and a
// modest frequency term relative to the additive soft-cost scale (spec.md
// §4.12 keeps soft terms well under the 900000 viability ceiling).
func DefaultHistoryOracleConfig() HistoryOracleConfig {
	return HistoryOracleConfig{
		NeverDoneBonus:     -1000,
		BaseRecencyPenalty: 400,
		RecencyStep:        40,
		RecencyFloor:       -200,
		FrequencyWeight:    150,
	}
}

// NewHistoryOracle builds an oracle from history[bunk][activity] = sorted
// ascending day indices already played, evaluated relative to today.
func NewHistoryOracle(history map[string]map[string][]int, today int, cfg HistoryOracleConfig) *HistoryOracle {
	played := make(map[rotationKey][]int)
	counts := make(map[string]map[string]int) // activity -> bunk -> count
	for bunk, byActivity := range history {
		for activity, days := range byActivity {
			played[rotationKey{Bunk: bunk, Activity: activity}] = days
			if counts[activity] == nil {
				counts[activity] = make(map[string]int)
			}
			counts[activity][bunk] = len(days)
		}
	}

	peerAvg := make(map[string]float64)
	for activity, byBunk := range counts {
		total := 0
		for _, c := range byBunk {
			total += c
		}
		if len(byBunk) > 0 {
			peerAvg[activity] = float64(total) / float64(len(byBunk))
		}
	}

	return &HistoryOracle{today: today, played: played, peerAvg: peerAvg, cfg: cfg}
}

// Score implements RotationOracle. beforeSlotIndex is accepted for
// interface compliance but unused: this oracle operates at day
// granularity, not live-schedule-prefix granularity.
func (h *HistoryOracle) Score(bunk, activity string, _ int) int {
	key := rotationKey{Bunk: bunk, Activity: activity}
	days := h.played[key]

	if len(days) == 0 {
		return h.cfg.NeverDoneBonus - int(h.cfg.FrequencyWeight*h.peerAvg[activity])
	}

	last := days[len(days)-1]
	daysSince := h.today - last
	if daysSince <= 0 {
		return PosInf
	}

	recency := h.cfg.BaseRecencyPenalty - daysSince*h.cfg.RecencyStep
	if recency < h.cfg.RecencyFloor {
		recency = h.cfg.RecencyFloor
	}

	frequency := (float64(len(days)) - h.peerAvg[activity]) * h.cfg.FrequencyWeight
	return recency + int(frequency)
}

// PlayedYesterday implements YesterdayChecker: it reports whether bunk
// played activity on the day immediately before h.today.
func (h *HistoryOracle) PlayedYesterday(bunk, activity string) bool {
	for _, d := range h.played[rotationKey{Bunk: bunk, Activity: activity}] {
		if d == h.today-1 {
			return true
		}
	}
	return false
}
