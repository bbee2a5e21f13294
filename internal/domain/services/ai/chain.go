package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"trustguard/internal/config"
	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services/rules"
	"trustguard/pkg/logger"
)

// FallbackProvider is the provider name reported when every remote provider
// was unavailable and the template explanation was used.
const FallbackProvider = "None"

// Chain tries explanation providers in priority order. A provider that fails
// with an auth or quota error is disabled for the process lifetime; transient
// failures fall through to the next provider. Explain never returns an error:
// when nothing is available it falls back to the deterministic templates.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    *logger.Logger

	mu       sync.RWMutex
	disabled map[string]bool
}

// NewChain creates a chain over an explicit provider list
func NewChain(providers []Provider, timeout time.Duration, log *logger.Logger) *Chain {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Chain{
		providers: providers,
		timeout:   timeout,
		logger:    log.WithComponent("explanation-chain"),
		disabled:  make(map[string]bool),
	}
}

// ChainFromConfig builds the chain from configuration. Providers without an
// API key are skipped entirely.
func ChainFromConfig(cfg config.AIConfig, log *logger.Logger) *Chain {
	var providers []Provider
	if cfg.Enabled {
		for _, name := range cfg.Priority {
			var pc config.AIProviderConfig
			switch name {
			case "groq":
				pc = cfg.Groq
			case "openai":
				pc = cfg.OpenAI
			default:
				log.Warn().Str("provider", name).Msg("unknown explanation provider in config")
				continue
			}
			if pc.APIKey == "" {
				continue
			}
			providers = append(providers, NewChatProvider(name, pc, log))
		}
	}
	return NewChain(providers, cfg.Timeout, log)
}

// Explain returns a bilingual explanation for an already classified message.
// The verdict itself is never touched here.
func (c *Chain) Explain(ctx context.Context, text string, level models.RiskLevel, redFlags []string) Explanation {
	for _, p := range c.providers {
		if c.isDisabled(p.Name()) {
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		exp, err := p.Explain(attemptCtx, text, level, redFlags)
		cancel()

		if err == nil {
			return *exp
		}

		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.permanent() {
			c.disable(p.Name())
			c.logger.Warn().
				Str("provider", p.Name()).
				Int("status", apiErr.status).
				Msg("provider disabled after auth/quota failure")
			continue
		}

		c.logger.Warn().
			Str("provider", p.Name()).
			Err(err).
			Msg("explanation attempt failed, trying next provider")
	}

	return Explanation{
		Text:     rules.Explain(level, redFlags),
		TextBn:   rules.ExplainBn(level),
		Provider: FallbackProvider,
	}
}

// DisabledProviders returns the names of providers taken out of rotation
func (c *Chain) DisabledProviders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for name := range c.disabled {
		names = append(names, name)
	}
	return names
}

func (c *Chain) isDisabled(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disabled[name]
}

func (c *Chain) disable(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled[name] = true
}
