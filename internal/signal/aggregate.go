package signal

import (
	"strings"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// consensusThreshold is the minimum aggregate strength a side needs
// before the consensus commits to it.
const consensusThreshold = 0.3

// Aggregate merges the signals for one asset into a consensus call.
// Each side's aggregate strength is its summed strength divided by
// the TOTAL signal count, so a lone strong vote is weighted down
// against broad agreement. Indicator snapshots merge in input order
// with later entries winning on key collision.
func Aggregate(signals []contracts.Signal) contracts.ConsensusSignal {
	merged := make(map[string]float64)
	for _, s := range signals {
		for k, v := range s.Indicators {
			merged[k] = v
		}
	}

	if len(signals) == 0 {
		return contracts.ConsensusSignal{
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  "Mixed signals - no clear consensus",
			Indicators: merged,
		}
	}

	var buySum, sellSum float64
	var buyReasons, sellReasons []string
	for _, s := range signals {
		switch s.Action {
		case contracts.ActionBuy:
			buySum += s.Strength
			buyReasons = append(buyReasons, s.Rationale)
		case contracts.ActionSell:
			sellSum += s.Strength
			sellReasons = append(sellReasons, s.Rationale)
		}
	}

	total := float64(len(signals))
	buyStrength := buySum / total
	sellStrength := sellSum / total

	switch {
	case buyStrength > sellStrength && buyStrength > consensusThreshold:
		return contracts.ConsensusSignal{
			Action:     contracts.ActionBuy,
			Strength:   buyStrength,
			Rationale:  strings.Join(buyReasons, " | "),
			Indicators: merged,
		}
	case sellStrength > buyStrength && sellStrength > consensusThreshold:
		return contracts.ConsensusSignal{
			Action:     contracts.ActionSell,
			Strength:   sellStrength,
			Rationale:  strings.Join(sellReasons, " | "),
			Indicators: merged,
		}
	default:
		return contracts.ConsensusSignal{
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  "Mixed signals - no clear consensus",
			Indicators: merged,
		}
	}
}

// Analyze runs every generator over the series and aggregates the
// results. It returns the per-generator signals alongside the
// consensus so callers can report both.
func Analyze(series *contracts.PriceSeries) ([]contracts.Signal, contracts.ConsensusSignal) {
	generators := All()
	signals := make([]contracts.Signal, 0, len(generators))
	for _, g := range generators {
		signals = append(signals, g(series))
	}
	return signals, Aggregate(signals)
}
