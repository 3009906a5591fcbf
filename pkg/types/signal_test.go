package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cointrader/coin-trader/internal/errors"
)

// TestNewSignal_Valid tests signal construction inside the valid range
func TestNewSignal_Valid(t *testing.T) {
	sig, err := NewSignal("dip_buy_-7_2_24", "KRW-BTC", SignalBuy, 0.5, "Dip -7.2% <= -7.0%")

	require.NoError(t, err)
	assert.Equal(t, "KRW-BTC", sig.Ticker)
	assert.Equal(t, SignalBuy, sig.Type)
	assert.Equal(t, 0.5, sig.Strength)
	assert.NotNil(t, sig.Params)
}

// TestNewSignal_StrengthBounds tests that the [0,1] boundaries are inclusive
func TestNewSignal_StrengthBounds(t *testing.T) {
	for _, strength := range []float64{0.0, 1.0} {
		_, err := NewSignal("s", "KRW-BTC", SignalSell, strength, "")
		assert.NoError(t, err)
	}
}

// TestNewSignal_InvalidStrength tests rejection of out-of-range strength
func TestNewSignal_InvalidStrength(t *testing.T) {
	tests := []struct {
		name     string
		strength float64
	}{
		{"negative", -0.1},
		{"above one", 1.01},
		{"far out", 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := NewSignal("s", "KRW-BTC", SignalBuy, tt.strength, "")
			assert.Nil(t, sig)
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.ErrorCategoryValidation))
		})
	}
}

// TestNewSignal_InvalidType tests rejection of unknown signal types
func TestNewSignal_InvalidType(t *testing.T) {
	sig, err := NewSignal("s", "KRW-BTC", SignalType("HOLD"), 0.5, "")
	assert.Nil(t, sig)
	assert.Error(t, err)
}

// TestSignal_WithParam tests the opaque param bag
func TestSignal_WithParam(t *testing.T) {
	sig, err := NewSignal("s", "KRW-BTC", SignalBuy, 0.5, "")
	require.NoError(t, err)

	sig.WithParam("change_pct", -7.5).WithParam("start_price", 50_000_000.0)
	assert.Equal(t, -7.5, sig.Params["change_pct"])
	assert.Equal(t, 50_000_000.0, sig.Params["start_price"])
}
