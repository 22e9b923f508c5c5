package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexmeckes/draftagent/go/clients/anthropic_client"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    ValueResult
		wantErr bool
	}{
		{
			name: "bare object",
			text: `{"analysis":"ok","valueScore":7,"recommendation":"BUY","adpDifferential":-3}`,
			want: ValueResult{Analysis: "ok", ValueScore: 7, Recommendation: "BUY", ADPDifferential: -3},
		},
		{
			name: "surrounded by prose",
			text: "Here is my take:\n{\"analysis\":\"fine\",\"valueScore\":8.5}\nHope that helps {not json}",
			want: ValueResult{Analysis: "fine", ValueScore: 8.5},
		},
		{
			name: "skips a broken brace before the object",
			text: `score {oops} then {"analysis":"second","valueScore":2}`,
			want: ValueResult{Analysis: "second", ValueScore: 2},
		},
		{
			name:    "no object",
			text:    "I think you should draft him.",
			wantErr: true,
		},
		{
			name:    "wrong field types",
			text:    `{"valueScore":"high"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ValueResult
			err := ExtractJSON(tt.text, &got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type stubCompleter struct {
	reply string
	err   error
	last  anthropic_client.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req anthropic_client.CompletionRequest) (string, error) {
	s.last = req
	return s.reply, s.err
}

func TestInvokerUsesModelConfig(t *testing.T) {
	c := &stubCompleter{reply: `{"analysis":"x","riskScore":4}`}
	m := ModelConfig{Model: "m1", MaxTokens: 500, Temperature: 0.7}

	var out RiskResult
	err := NewInvoker(NewNarrator(c, m))(context.Background(), "sys", "prompt", &out)
	require.NoError(t, err)

	assert.Equal(t, 4.0, out.RiskScore)
	assert.Equal(t, "m1", c.last.Model)
	assert.Equal(t, 500, c.last.MaxTokens)
	assert.Equal(t, "sys", c.last.System)
	assert.Equal(t, "prompt", c.last.Prompt)
}

func TestInvokerPropagatesCompleterError(t *testing.T) {
	boom := errors.New("boom")
	c := &stubCompleter{err: boom}

	var out RiskResult
	err := NewInvoker(NewNarrator(c, ModelConfig{}))(context.Background(), "s", "p", &out)
	assert.ErrorIs(t, err, boom)
}
