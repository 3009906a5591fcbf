package strategy

import (
	"fmt"
	"math"

	"github.com/cointrader/coin-trader/pkg/types"
)

// VolumeSurgeStrategy buys when current volume spikes above its rolling
// average while price action is positive.
type VolumeSurgeStrategy struct {
	lookbackHours    int
	volumeMultiplier float64
}

// NewVolumeSurge creates a volume surge strategy.
func NewVolumeSurge(lookbackHours int, volumeMultiplier float64) *VolumeSurgeStrategy {
	return &VolumeSurgeStrategy{
		lookbackHours:    lookbackHours,
		volumeMultiplier: volumeMultiplier,
	}
}

// NewVolumeSurgeFromParams builds a volume surge strategy from a parameter map.
func NewVolumeSurgeFromParams(params map[string]interface{}) (*VolumeSurgeStrategy, error) {
	return NewVolumeSurge(
		intParam(params, "lookback_hours", 24),
		floatParam(params, "volume_multiplier", 3.0),
	), nil
}

func (s *VolumeSurgeStrategy) Name() string {
	return fmt.Sprintf("volume_surge_%d_%d", s.lookbackHours, int(s.volumeMultiplier))
}

func (s *VolumeSurgeStrategy) Template() string {
	return "volume_surge"
}

// Evaluate compares current volume against the lookback average.
func (s *VolumeSurgeStrategy) Evaluate(ticker string, view *types.MarketView) (*types.Signal, error) {
	if len(view.VolumeHistory) == 0 || view.Volume <= 0 {
		return nil, nil
	}

	history := view.VolumeHistory
	if len(history) > s.lookbackHours {
		history = history[len(history)-s.lookbackHours:]
	}
	if len(history) < 2 {
		return nil, nil
	}

	sum := 0.0
	for _, v := range history {
		sum += v
	}
	avgVolume := sum / float64(len(history))
	if avgVolume <= 0 {
		return nil, nil
	}

	volumeRatio := view.Volume / avgVolume

	if !view.HasPosition && volumeRatio >= s.volumeMultiplier && view.ChangePct > 0 {
		strength := math.Min(volumeRatio/(s.volumeMultiplier*2), 1.0)
		return types.NewSignal(s.Name(), ticker, types.SignalBuy, strength,
			fmt.Sprintf("Volume surge %.1fx avg, price +%.1f%%", volumeRatio, view.ChangePct))
	}

	return nil, nil
}

func (s *VolumeSurgeStrategy) Describe() map[string]interface{} {
	return map[string]interface{}{
		"name":              s.Name(),
		"template":          s.Template(),
		"lookback_hours":    s.lookbackHours,
		"volume_multiplier": s.volumeMultiplier,
	}
}
