package analysis

import (
	"context"
	"fmt"
)

// Result is a single agent's structured opinion.
type Result interface {
	Summary() string
}

// Agent is one independent analytical perspective. Analyze must not modify c.
type Agent interface {
	Name() string
	Analyze(ctx context.Context, c *Context) (Result, error)
}

// AgentResults collects the four opinions under the keys clients expect.
type AgentResults struct {
	Value           *ValueResult       `json:"valueAgent"`
	TeamComposition *CompositionResult `json:"teamCompositionAgent"`
	Scarcity        *ScarcityResult    `json:"scarcityAgent"`
	Risk            *RiskResult        `json:"riskAgent"`
}

func (a *AgentResults) set(r Result) error {
	switch v := r.(type) {
	case *ValueResult:
		a.Value = v
	case *CompositionResult:
		a.TeamComposition = v
	case *ScarcityResult:
		a.Scarcity = v
	case *RiskResult:
		a.Risk = v
	default:
		return fmt.Errorf("unexpected agent result %T", r)
	}
	return nil
}

func (a *AgentResults) complete() bool {
	return a.Value != nil && a.TeamComposition != nil && a.Scarcity != nil && a.Risk != nil
}
