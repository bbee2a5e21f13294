package services

import (
	"context"

	"github.com/google/uuid"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services/ai"
	"trustguard/internal/domain/services/rules"
	"trustguard/pkg/logger"
)

// Pipeline composes the rules engine and the explanation chain into the
// message check flow. The deterministic verdict is authoritative: provider
// output only ever supplies wording and supplementary red flags.
type Pipeline struct {
	rules    *rules.Engine
	chain    *ai.Chain
	messages MessageStore
	logger   *logger.Logger
}

// NewPipeline creates a message risk pipeline
func NewPipeline(engine *rules.Engine, chain *ai.Chain, messages MessageStore, log *logger.Logger) *Pipeline {
	return &Pipeline{
		rules:    engine,
		chain:    chain,
		messages: messages,
		logger:   log.WithComponent("message-pipeline"),
	}
}

// Check classifies a message and returns the verdict. It never fails: an
// unavailable explanation provider falls back to templates, and a failed
// write returns the verdict with an empty message id.
func (p *Pipeline) Check(ctx context.Context, text string, userID *uuid.UUID, fingerprint string) *models.CheckMessageResponse {
	verdict := p.rules.Classify(text)

	// The explanation and the write run on a detached context so a caller
	// abort after classification still yields the deterministic verdict.
	detached := context.WithoutCancel(ctx)
	exp := p.chain.Explain(detached, text, verdict.RiskLevel, verdict.RedFlags)

	redFlags := unionFlags(verdict.RedFlags, exp.RedFlags)

	msg := &models.Message{
		ID:            uuid.New(),
		UserID:        userID,
		Fingerprint:   fingerprint,
		MessageText:   text,
		RiskLevel:     verdict.RiskLevel,
		Confidence:    1.0,
		RedFlags:      redFlags,
		Explanation:   exp.Text,
		ExplanationBn: exp.TextBn,
		RulesScore:    verdict.Score,
	}

	messageID := msg.ID.String()
	if err := p.messages.Create(detached, msg); err != nil {
		p.logger.Error().Err(err).Msg("failed to persist message, returning verdict anyway")
		messageID = ""
	}

	return &models.CheckMessageResponse{
		MessageID:     messageID,
		RiskLevel:     verdict.RiskLevel,
		Confidence:    1.0,
		RedFlags:      redFlags,
		Explanation:   exp.Text,
		ExplanationBn: exp.TextBn,
		RulesScore:    verdict.Score,
		Provider:      exp.Provider,
	}
}

// unionFlags merges provider flags after the deterministic ones, dropping
// duplicates while keeping order stable.
func unionFlags(ruleFlags, providerFlags []string) []string {
	seen := make(map[string]bool, len(ruleFlags)+len(providerFlags))
	out := make([]string, 0, len(ruleFlags)+len(providerFlags))
	for _, f := range ruleFlags {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, f := range providerFlags {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
