package engine

import (
	"github.com/cointrader/coin-trader/pkg/types"
)

// Decision is an advisor's verdict on a pending signal
type Decision string

const (
	DecisionExecute Decision = "EXECUTE"
	DecisionSkip    Decision = "SKIP"
	DecisionModify  Decision = "MODIFY"
)

// Advice is the advisor's evaluation of one signal.
type Advice struct {
	Decision   Decision
	Confidence float64
	Reason     string
}

// Advisor is an optional external evaluator consulted before risk gating.
// The core ships no implementation; an LLM advisory collaborator plugs in
// here. A SKIP decision drops the signal; errors and nil advice fall
// through to normal risk gating.
type Advisor interface {
	EvaluateSignal(signal *types.Signal, marketContext map[string]interface{}) (*Advice, error)
}
