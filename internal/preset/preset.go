// Package preset implements the Preset x Profile -> PresetPlan planner
// (L11), per §4.10's table: which routes to attempt, the conservative
// chroma policy, LZ nice_length/match_strategy overrides, the filter-row
// cost model, and the filter-lo LZ probe flag.
//
// Grounded on github.com/deepteams/webp/encode.go's EncoderConfig
// quality-to-parameter mapping, which derives a cluster of
// encoder knobs from a single user-facing quality/method pair the same
// way this planner derives a cluster of knobs from Preset x Profile.
package preset

import (
	"github.com/loco-codec/loco/internal/config"
	"github.com/loco-codec/loco/internal/entropy"
	"github.com/loco-codec/loco/internal/filter"
	"github.com/loco-codec/loco/internal/model"
)

// Plan is the resolved set of knobs an encode pass runs with, per §3's
// PresetPlan.
type Plan struct {
	CompeteY           bool
	CompeteChroma      bool
	ConservativeChroma bool
	NiceLength         int
	MatchStrategy      entropy.MatchStrategy
	FilterCost         filter.CostModel
	LoLZProbe          bool
}

// For resolves a PresetPlan for the given preset and profile, per the
// §4.10 table. All "(cfg)" entries read from the process-wide
// configuration snapshot.
func For(p model.Preset, profile model.Profile) Plan {
	cfg := config.Get()
	switch p {
	case model.PresetFast:
		return Plan{
			CompeteY:           cfg.FastRouteCompete,
			CompeteChroma:      cfg.FastRouteCompete && cfg.FastRouteCompeteChroma,
			ConservativeChroma: cfg.FastRouteCompeteConservative,
			NiceLength:         cfg.FastLZNiceLength,
			MatchStrategy:      entropy.MatchStrategy(cfg.FastLZMatchStrategy),
			FilterCost:         filter.CostSAD,
			LoLZProbe:          cfg.FastFilterLoLZProbe,
		}
	case model.PresetMax:
		return Plan{
			CompeteY:           true,
			CompeteChroma:      true,
			ConservativeChroma: false,
			NiceLength:         cfg.LZNiceLength,
			MatchStrategy:      entropy.MatchStrategy(cfg.MaxLZMatchStrategy),
			FilterCost:         filter.CostEntropy,
			LoLZProbe:          cfg.MaxFilterLoLZProbe,
		}
	default: // PresetBalanced
		chroma := cfg.RouteCompeteChroma
		if profile == model.ProfilePhoto {
			chroma = cfg.RouteCompetePhotoChroma
		}
		return Plan{
			CompeteY:           true,
			CompeteChroma:      chroma,
			ConservativeChroma: cfg.RouteCompeteChromaConservative,
			NiceLength:         cfg.LZNiceLength,
			MatchStrategy:      entropy.MatchStrategy(cfg.LZMatchStrategy),
			FilterCost:         filter.CostSAD,
			LoLZProbe:          cfg.BalancedFilterLoLZProbe,
		}
	}
}
