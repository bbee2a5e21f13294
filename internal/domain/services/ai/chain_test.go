package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustguard/internal/domain/models"
	"trustguard/pkg/logger"
)

type stubProvider struct {
	name  string
	calls int
	exp   *Explanation
	err   error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Explain(_ context.Context, _ string, _ models.RiskLevel, _ []string) (*Explanation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.exp, nil
}

func newTestChain(providers ...Provider) *Chain {
	return NewChain(providers, time.Second, logger.NewDefault())
}

func TestChainFirstSuccessWins(t *testing.T) {
	first := &stubProvider{name: "groq", exp: &Explanation{Text: "looks bad", TextBn: "খারাপ", Provider: "groq"}}
	second := &stubProvider{name: "openai", exp: &Explanation{Text: "unused", Provider: "openai"}}

	c := newTestChain(first, second)
	got := c.Explain(context.Background(), "msg", models.RiskLevelHigh, nil)

	assert.Equal(t, "groq", got.Provider)
	assert.Equal(t, "looks bad", got.Text)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}

func TestChainDisablesProviderOnAuthFailure(t *testing.T) {
	failing := &stubProvider{name: "groq", err: &apiError{provider: "groq", status: 401, body: "invalid key"}}
	healthy := &stubProvider{name: "openai", exp: &Explanation{Text: "ok", Provider: "openai"}}

	c := newTestChain(failing, healthy)

	got := c.Explain(context.Background(), "msg", models.RiskLevelMedium, nil)
	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, 1, failing.calls)

	// Disabled provider is skipped without another attempt
	got = c.Explain(context.Background(), "msg", models.RiskLevelMedium, nil)
	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, []string{"groq"}, c.DisabledProviders())
}

func TestChainQuotaFailureIsPermanent(t *testing.T) {
	failing := &stubProvider{name: "groq", err: &apiError{provider: "groq", status: 429, body: "quota"}}

	c := newTestChain(failing)
	c.Explain(context.Background(), "msg", models.RiskLevelLow, nil)

	assert.Equal(t, []string{"groq"}, c.DisabledProviders())
}

func TestChainTransientFailureFallsThrough(t *testing.T) {
	flaky := &stubProvider{name: "groq", err: errors.New("connection reset")}
	healthy := &stubProvider{name: "openai", exp: &Explanation{Text: "ok", Provider: "openai"}}

	c := newTestChain(flaky, healthy)

	got := c.Explain(context.Background(), "msg", models.RiskLevelLow, nil)
	assert.Equal(t, "openai", got.Provider)
	assert.Empty(t, c.DisabledProviders())

	// Transient failures keep the provider in rotation
	c.Explain(context.Background(), "msg", models.RiskLevelLow, nil)
	assert.Equal(t, 2, flaky.calls)
}

func TestChainFallbackWhenAllUnavailable(t *testing.T) {
	down := &stubProvider{name: "groq", err: &apiError{provider: "groq", status: 401}}

	c := newTestChain(down)
	flags := []string{"Requests advance or direct payment"}
	got := c.Explain(context.Background(), "send money now", models.RiskLevelHigh, flags)

	require.Equal(t, FallbackProvider, got.Provider)
	assert.Contains(t, got.Text, "High risk pattern detected")
	assert.Contains(t, got.Text, flags[0])
	assert.NotEmpty(t, got.TextBn)
}

func TestChainFallbackWithNoProviders(t *testing.T) {
	c := newTestChain()
	got := c.Explain(context.Background(), "hello", models.RiskLevelLow, nil)

	assert.Equal(t, FallbackProvider, got.Provider)
	assert.Contains(t, got.Text, "Low risk")
}
