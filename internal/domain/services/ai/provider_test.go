package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustguard/internal/config"
	"trustguard/internal/domain/models"
	"trustguard/pkg/logger"
)

func newMockedProvider(t *testing.T) *ChatProvider {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewChatProvider("groq", config.AIProviderConfig{
		APIKey:  "test-key",
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama-3.3-70b-versatile",
	}, logger.NewDefault())
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestChatProviderExplain(t *testing.T) {
	p := newMockedProvider(t)

	body := `{"explanation":"This demands a PIN, a classic scam move.","explanation_bn":"এটি পিন চায়, যা প্রতারণার লক্ষণ।","red_flags":["Impersonates a payment agent"]}`
	httpmock.RegisterResponder("POST", "https://api.groq.com/openai/v1/chat/completions",
		httpmock.NewJsonResponderOrPanic(200, chatCompletion(body)))

	exp, err := p.Explain(context.Background(), "send your pin", models.RiskLevelHigh,
		[]string{"Requests sensitive personal information (PIN/OTP)"})

	require.NoError(t, err)
	assert.Equal(t, "groq", exp.Provider)
	assert.Equal(t, "This demands a PIN, a classic scam move.", exp.Text)
	assert.NotEmpty(t, exp.TextBn)
	assert.Equal(t, []string{"Impersonates a payment agent"}, exp.RedFlags)
}

func TestChatProviderExplainFencedJSON(t *testing.T) {
	p := newMockedProvider(t)

	body := "```json\n{\"explanation\":\"ok\",\"explanation_bn\":\"ঠিক আছে\"}\n```"
	httpmock.RegisterResponder("POST", "https://api.groq.com/openai/v1/chat/completions",
		httpmock.NewJsonResponderOrPanic(200, chatCompletion(body)))

	exp, err := p.Explain(context.Background(), "hello", models.RiskLevelLow, nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", exp.Text)
}

func TestChatProviderAuthErrorIsPermanent(t *testing.T) {
	p := newMockedProvider(t)

	httpmock.RegisterResponder("POST", "https://api.groq.com/openai/v1/chat/completions",
		httpmock.NewStringResponder(401, `{"error":"invalid api key"}`))

	_, err := p.Explain(context.Background(), "hello", models.RiskLevelLow, nil)

	require.Error(t, err)
	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.permanent())
}

func TestChatProviderServerErrorIsTransient(t *testing.T) {
	p := newMockedProvider(t)

	httpmock.RegisterResponder("POST", "https://api.groq.com/openai/v1/chat/completions",
		httpmock.NewStringResponder(500, "internal error"))

	_, err := p.Explain(context.Background(), "hello", models.RiskLevelLow, nil)

	require.Error(t, err)
	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.False(t, apiErr.permanent())
}

func TestParseExplanation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"explanation":"fine","explanation_bn":"ঠিক"}`,
			want:    "fine",
		},
		{
			name:    "json with surrounding prose",
			content: fmt.Sprintf("Here is my analysis:\n%s\nHope that helps.", `{"explanation":"fine","explanation_bn":"ঠিক"}`),
			want:    "fine",
		},
		{
			name:    "bare code fence",
			content: "```\n{\"explanation\":\"fine\"}\n```",
			want:    "fine",
		},
		{
			name:    "missing explanation field",
			content: `{"explanation_bn":"ঠিক"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: "I cannot help with that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := parseExplanation(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, exp.Text)
		})
	}
}
