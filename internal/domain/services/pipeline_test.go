package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services/ai"
	"trustguard/internal/domain/services/rules"
	"trustguard/pkg/logger"
)

type fixedProvider struct {
	exp *ai.Explanation
	err error
}

func (p *fixedProvider) Name() string { return "fixed" }

func (p *fixedProvider) Explain(context.Context, string, models.RiskLevel, []string) (*ai.Explanation, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.exp, nil
}

func newTestPipeline(providers []ai.Provider, messages MessageStore) *Pipeline {
	log := logger.NewDefault()
	return NewPipeline(
		rules.New(log),
		ai.NewChain(providers, time.Second, log),
		messages,
		log,
	)
}

func TestPipelineCheck(t *testing.T) {
	msgs := &fakeMessageStore{}
	provider := &fixedProvider{exp: &ai.Explanation{
		Text:     "This demands your PIN, which no real agent does.",
		TextBn:   "আসল এজেন্ট কখনও পিন চায় না।",
		RedFlags: []string{"Impersonates a payment agent"},
		Provider: "fixed",
	}}

	p := newTestPipeline([]ai.Provider{provider}, msgs)

	resp := p.Check(context.Background(), "Send your bKash PIN now to receive the money.", nil, "fp-1")

	assert.Equal(t, models.RiskLevelHigh, resp.RiskLevel)
	assert.Equal(t, 100, resp.RulesScore)
	assert.Equal(t, 1.0, resp.Confidence)
	assert.Equal(t, "fixed", resp.Provider)
	assert.NotEmpty(t, resp.MessageID)

	// Deterministic flags first, provider extras appended
	require.Len(t, resp.RedFlags, 4)
	assert.Equal(t, "Impersonates a payment agent", resp.RedFlags[3])

	require.Len(t, msgs.messages, 1)
	stored := msgs.messages[0]
	assert.Equal(t, "fp-1", stored.Fingerprint)
	assert.Equal(t, resp.RedFlags, stored.RedFlags)
}

func TestPipelineCheckDeduplicatesProviderFlags(t *testing.T) {
	provider := &fixedProvider{exp: &ai.Explanation{
		Text:     "ok",
		RedFlags: []string{"Requests advance or direct payment", "Something new"},
		Provider: "fixed",
	}}

	p := newTestPipeline([]ai.Provider{provider}, &fakeMessageStore{})

	resp := p.Check(context.Background(), "Please complete the payment to proceed.", nil, "fp-2")

	assert.Equal(t, []string{"Requests advance or direct payment", "Something new"}, resp.RedFlags)
}

func TestPipelineCheckPersistFailureIsNonFatal(t *testing.T) {
	msgs := &fakeMessageStore{err: errors.New("db down")}

	p := newTestPipeline(nil, msgs)

	resp := p.Check(context.Background(), "Send your bKash PIN now.", nil, "fp-3")

	assert.Empty(t, resp.MessageID, "failed write must return an empty message id")
	assert.Equal(t, models.RiskLevelHigh, resp.RiskLevel)
	assert.Equal(t, ai.FallbackProvider, resp.Provider)
}

func TestPipelineCheckFallbackExplanation(t *testing.T) {
	p := newTestPipeline(nil, &fakeMessageStore{})

	resp := p.Check(context.Background(), "Hello, see you tomorrow.", nil, "fp-4")

	assert.Equal(t, models.RiskLevelLow, resp.RiskLevel)
	assert.Equal(t, ai.FallbackProvider, resp.Provider)
	assert.Contains(t, resp.Explanation, "Low risk")
	assert.NotEmpty(t, resp.ExplanationBn)
}

func TestPipelineCheckSurvivesCallerCancellation(t *testing.T) {
	msgs := &fakeMessageStore{}
	p := newTestPipeline(nil, msgs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := p.Check(ctx, "Send your bKash PIN now.", nil, "fp-5")

	assert.Equal(t, models.RiskLevelHigh, resp.RiskLevel)
	assert.NotEmpty(t, resp.MessageID)
	require.Len(t, msgs.messages, 1)
	assert.NoError(t, msgs.ctxErr, "persistence must run on a detached context")
}
