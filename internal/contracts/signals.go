package contracts

// Action is a directional trading call.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Signal is one generator's call for one asset.
// ⭐ SSOT: generator → aggregator signal shape
// Strength is always inside [0,1]. Indicators is a snapshot of the
// values the generator looked at when it decided.
type Signal struct {
	Name       string             `json:"name"`
	Action     Action             `json:"action"`
	Strength   float64            `json:"strength"`
	Rationale  string             `json:"rationale"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
}

// ConsensusSignal is the merged call derived from several Signals.
type ConsensusSignal struct {
	Action     Action             `json:"action"`
	Strength   float64            `json:"strength"`
	Rationale  string             `json:"rationale"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
}

// IsActionable reports whether the signal calls for a trade
func (s *Signal) IsActionable() bool {
	return s.Action == ActionBuy || s.Action == ActionSell
}

// ClampStrength forces a raw strength into [0,1]
func ClampStrength(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
