// Package config defines the solver's tunable parameters: a plain struct
// with a defaults constructor, no reflection-based binding, extended with
// YAML decoding via gopkg.in/yaml.v3 for file-based overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SolverConfig holds every tunable cap, weight, and pass limit named in
// spec.md. Field names mirror the spec section that defines them.
type SolverConfig struct {
	// MaxPasses is the number of C6→C12 passes per solve (spec.md §2: "up to three").
	MaxPasses int `yaml:"max_passes"`

	// BackjumpIterationCap bounds C10 (spec.md §4.10, §5: 50000).
	BackjumpIterationCap int `yaml:"backjump_iteration_cap"`
	// SwapChainAttemptCap bounds C11 Pass B (spec.md §4.11, §5: 500).
	SwapChainAttemptCap int `yaml:"swap_chain_attempt_cap"`
	// AC3IterationMultiplier bounds C8 at AC3IterationMultiplier*blockCount (spec.md §5: 10x).
	AC3IterationMultiplier int `yaml:"ac3_iteration_multiplier"`

	// HardGateCost and FreeCost are the penalty-function sentinels (spec.md §4.12).
	HardGateCost int `yaml:"hard_gate_cost"`
	FreeCost     int `yaml:"free_cost"`
	// ViableCostCeiling is the "< 900000" acceptance threshold used throughout
	// C9–C12 (spec.md §4.9 step 1, §4.10, §4.12).
	ViableCostCeiling int `yaml:"viable_cost_ceiling"`

	// PostEditProtectionSeconds is the §6.3 _postEditInProgress window.
	PostEditProtectionSeconds int `yaml:"post_edit_protection_seconds"`

	Weights ScoreWeights `yaml:"weights"`
}

// ScoreWeights holds the additive soft-term weights from spec.md §4.12.
// Every field is independently tunable so a camp can re-balance rotation
// vs. fill-to-capacity vs. adjacency without a code change.
type ScoreWeights struct {
	TypeBalanceMin          int `yaml:"type_balance_min"`
	TypeBalanceMax          int `yaml:"type_balance_max"`
	OversizeBunkPenalty     int `yaml:"oversize_bunk_penalty"`
	DivisionPreferenceBase  int `yaml:"division_preference_base"`
	DivisionPreferenceStep  int `yaml:"division_preference_step"`
	DivisionNotListedPenalty int `yaml:"division_not_listed_penalty"`
	SharingEmptyBonus       int `yaml:"sharing_empty_bonus"`
	SharingSameActivity     int `yaml:"sharing_same_activity"`
	SharingDifferentActivity int `yaml:"sharing_different_activity"`
	FillBase                int `yaml:"fill_base"`
	FillSlope               int `yaml:"fill_slope"`
	EmptySharableBonus      int `yaml:"empty_sharable_bonus"`
	AdjacentDistance1       int `yaml:"adjacent_distance_1"`
	AdjacentDistance3       int `yaml:"adjacent_distance_3"`
	AdjacentOther           int `yaml:"adjacent_other"`
	PlanMatchBonus          int `yaml:"plan_match_bonus"`
	PlanMismatchPenalty     int `yaml:"plan_mismatch_penalty"`
	ScarcityOver2           int `yaml:"scarcity_over_2"`
	ScarcityOver3           int `yaml:"scarcity_over_3"`
	UniqueResourcePenalty   int `yaml:"unique_resource_penalty"`
	ZoneContinuityBonus     int `yaml:"zone_continuity_bonus"`
	ZoneChangePenalty       int `yaml:"zone_change_penalty"`
	TieBreakNoiseMax        int `yaml:"tie_break_noise_max"`
	SkeletonInterleaveBonus int `yaml:"skeleton_interleave_bonus"`
	SkeletonSameTypePenalty int `yaml:"skeleton_same_type_penalty"`

	DebtFreeBlockPenalty     int `yaml:"debt_free_block_penalty"`
	DebtYesterdayRepeat      int `yaml:"debt_yesterday_repeat"`
	DebtHardPlayerViolation  int `yaml:"debt_hard_player_violation"`
	DebtOffWishPenalty       int `yaml:"debt_off_wish_penalty"`

	AnalyzerFreeBlockWeight     int `yaml:"analyzer_free_block_weight"`
	AnalyzerYesterdayWeight     int `yaml:"analyzer_yesterday_weight"`
	AnalyzerHardViolationWeight int `yaml:"analyzer_hard_violation_weight"`
	AnalyzerSoftViolationWeight int `yaml:"analyzer_soft_violation_weight"`
	AnalyzerCostCap             int `yaml:"analyzer_cost_cap"`

	PlanSteeringWeight int `yaml:"plan_steering_weight"`
	TimeConstrainedCapMinutes int `yaml:"time_constrained_cap_minutes"`
	TimeConstrainedBoostScale int `yaml:"time_constrained_boost_scale"`

	OversizeFillRatio float64 `yaml:"oversize_fill_ratio"`
}

// DefaultSolverConfig returns the literal constants named in spec.md §4.12, §4.5, §4.14.
func DefaultSolverConfig() *SolverConfig {
	return &SolverConfig{
		MaxPasses:                 3,
		BackjumpIterationCap:      50000,
		SwapChainAttemptCap:       500,
		AC3IterationMultiplier:    10,
		HardGateCost:              999999,
		FreeCost:                  100000,
		ViableCostCeiling:         900000,
		PostEditProtectionSeconds: 8,
		Weights: ScoreWeights{
			TypeBalanceMin:           1000,
			TypeBalanceMax:           3000,
			OversizeBunkPenalty:      5000,
			DivisionPreferenceBase:   50,
			DivisionPreferenceStep:   5,
			DivisionNotListedPenalty: 8000,
			SharingEmptyBonus:        200,
			SharingSameActivity:      -3000,
			SharingDifferentActivity: 500,
			FillBase:                 3000,
			FillSlope:                5000,
			EmptySharableBonus:       500,
			AdjacentDistance1:        -500,
			AdjacentDistance3:        -300,
			AdjacentOther:            -100,
			PlanMatchBonus:           -8000,
			PlanMismatchPenalty:      2000,
			ScarcityOver2:            2000,
			ScarcityOver3:            3000,
			UniqueResourcePenalty:    5000,
			ZoneContinuityBonus:      -300,
			ZoneChangePenalty:        500,
			TieBreakNoiseMax:         300,
			SkeletonInterleaveBonus:  -1500,
			SkeletonSameTypePenalty:  2000,

			DebtFreeBlockPenalty:    -5000,
			DebtYesterdayRepeat:     10000,
			DebtHardPlayerViolation: 20000,
			DebtOffWishPenalty:      -2000,

			AnalyzerFreeBlockWeight:     10000,
			AnalyzerYesterdayWeight:     5000,
			AnalyzerHardViolationWeight: 8000,
			AnalyzerSoftViolationWeight: 2000,
			AnalyzerCostCap:             50000,

			PlanSteeringWeight:        -8000,
			TimeConstrainedCapMinutes: 480,
			TimeConstrainedBoostScale: 3000,

			OversizeFillRatio: 1.3,
		},
	}
}

// Load reads a YAML config file and overlays it onto DefaultSolverConfig.
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (*SolverConfig, error) {
	cfg := DefaultSolverConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading solver config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing solver config %q: %w", path, err)
	}
	return cfg, nil
}
