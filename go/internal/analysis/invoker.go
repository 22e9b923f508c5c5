package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexmeckes/draftagent/go/clients/anthropic_client"
)

// ErrMalformedResponse means the scorer reply held no usable JSON object.
var ErrMalformedResponse = errors.New("scorer response contained no JSON object")

// Completer is the external scorer.
type Completer interface {
	Complete(ctx context.Context, req anthropic_client.CompletionRequest) (string, error)
}

// ModelConfig selects the scorer model and sampling for one role.
type ModelConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Narrator returns the scorer's free text reply.
type Narrator func(ctx context.Context, system, prompt string) (string, error)

// Invoker asks the scorer and decodes the first JSON object of the reply into out.
type Invoker func(ctx context.Context, system, prompt string, out any) error

func NewNarrator(c Completer, m ModelConfig) Narrator {
	return func(ctx context.Context, system, prompt string) (string, error) {
		return c.Complete(ctx, anthropic_client.CompletionRequest{
			Model:       m.Model,
			System:      system,
			Prompt:      prompt,
			MaxTokens:   m.MaxTokens,
			Temperature: m.Temperature,
		})
	}
}

func NewInvoker(narrate Narrator) Invoker {
	return func(ctx context.Context, system, prompt string, out any) error {
		text, err := narrate(ctx, system, prompt)
		if err != nil {
			return err
		}
		return ExtractJSON(text, out)
	}
}

// ExtractJSON decodes the first well-formed JSON object found in text into out.
func ExtractJSON(text string, out any) error {
	for i := strings.IndexByte(text, '{'); i >= 0; {
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err == nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			return nil
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return ErrMalformedResponse
}
