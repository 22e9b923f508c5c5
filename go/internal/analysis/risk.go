package analysis

import (
	"context"
	"fmt"
	"strings"
)

type RiskResult struct {
	Analysis        string   `json:"analysis"`
	RiskScore       float64  `json:"riskScore"`
	Confidence      string   `json:"confidence"`
	PrimaryConcerns []string `json:"primaryConcerns"`
	UpsideVariance  float64  `json:"upsideVariance"`
}

func (r *RiskResult) Summary() string { return r.Analysis }

const riskSystemPrompt = `You are a fantasy football risk assessment expert. You judge how reliable a player is likely to be.

Weigh:
- Age and injury history
- Consistency of past performance
- Team situation and coaching changes
- Workload and competition concerns

Respond with only a JSON object of this exact shape:
{
  "analysis": "2-3 sentence risk assessment",
  "riskScore": <number 1-10>,
  "confidence": "HIGH|MEDIUM|LOW",
  "primaryConcerns": ["concern1", "concern2"],
  "upsideVariance": <number 1-5>
}`

// RiskAgent passes age, injury and experience straight to the scorer.
type RiskAgent struct {
	invoke Invoker
}

func NewRiskAgent(invoke Invoker) *RiskAgent {
	return &RiskAgent{invoke: invoke}
}

func (a *RiskAgent) Name() string { return "Risk Assessment Agent" }

func (a *RiskAgent) Analyze(ctx context.Context, c *Context) (Result, error) {
	injury := c.Player.InjuryStatus
	if injury == "" {
		injury = "Healthy"
	}
	age := ageLabel(c.Player.Age)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the risk profile of %s.\n\n", c.playerLabel())
	b.WriteString("Player details:\n")
	fmt.Fprintf(&b, "- Age: %s\n", age)
	fmt.Fprintf(&b, "- Years experience: %d\n", c.Player.YearsExp)
	fmt.Fprintf(&b, "- Status: %s\n", c.Player.Status)
	fmt.Fprintf(&b, "- Injury status: %s\n", injury)
	if c.Player.InjuryBodyPart != "" {
		fmt.Fprintf(&b, "- Injury: %s\n", c.Player.InjuryBodyPart)
	}
	b.WriteString("\nDraft context:\n")
	fmt.Fprintf(&b, "- Current pick: %d\n", c.CurrentPick)
	fmt.Fprintf(&b, "- Round: %d\n\n", c.CurrentRound)
	b.WriteString("Consider:\n")
	fmt.Fprintf(&b, "1. Age related decline risk (age %s)\n", age)
	b.WriteString("2. Injury history and current health\n")
	b.WriteString("3. Team situation stability\n")
	b.WriteString("4. Competition for targets or carries\n")
	b.WriteString("5. Historical consistency\n\n")
	b.WriteString("Provide your risk assessment.")

	var out RiskResult
	if err := a.invoke(ctx, riskSystemPrompt, b.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
