package strategy

import (
	"fmt"
	"sort"

	"github.com/cointrader/coin-trader/internal/errors"
)

// BuilderFunc constructs a strategy instance from a parameter map.
type BuilderFunc func(params map[string]interface{}) (Strategy, error)

// Factory is an explicit registration table mapping template names to
// builders. It is constructed at process start and passed by value into
// whoever assembles the strategy set; there is no package-level registry
// and no import-order side effects.
type Factory struct {
	builders map[string]BuilderFunc
}

// NewFactory creates a factory preloaded with all built-in templates.
func NewFactory() *Factory {
	f := &Factory{builders: make(map[string]BuilderFunc)}
	f.Register("dip_buy", func(params map[string]interface{}) (Strategy, error) {
		return NewDipBuyFromParams(params)
	})
	f.Register("momentum", func(params map[string]interface{}) (Strategy, error) {
		return NewMomentumFromParams(params)
	})
	f.Register("fear_greed", func(params map[string]interface{}) (Strategy, error) {
		return NewFearGreedFromParams(params)
	})
	f.Register("volatility_breakout", func(params map[string]interface{}) (Strategy, error) {
		return NewVolatilityBreakoutFromParams(params)
	})
	f.Register("volume_surge", func(params map[string]interface{}) (Strategy, error) {
		return NewVolumeSurgeFromParams(params)
	})
	f.Register("notice_alpha", func(params map[string]interface{}) (Strategy, error) {
		return NewNoticeAlphaFromParams(params)
	})
	return f
}

// Register adds a template builder, overwriting any existing one.
func (f *Factory) Register(template string, builder BuilderFunc) {
	f.builders[template] = builder
}

// Create builds a strategy instance from a template name and parameters.
func (f *Factory) Create(template string, params map[string]interface{}) (Strategy, error) {
	builder, ok := f.builders[template]
	if !ok {
		return nil, errors.NewConfigError("strategy", fmt.Sprintf("unknown strategy template: %s", template))
	}
	return builder(params)
}

// List returns all registered template names, sorted.
func (f *Factory) List() []string {
	names := make([]string, 0, len(f.builders))
	for name := range f.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// floatParam reads a float parameter, accepting the numeric types a JSON
// or hand-built params map may carry.
func floatParam(params map[string]interface{}, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// intParam reads an integer parameter with the same tolerance as floatParam.
func intParam(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// stringsParam reads a string-slice parameter.
func stringsParam(params map[string]interface{}, key string, def []string) []string {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		if len(out) == 0 {
			return def
		}
		return out
	default:
		return def
	}
}
