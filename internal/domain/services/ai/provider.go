package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"trustguard/internal/config"
	"trustguard/internal/domain/models"
	"trustguard/pkg/logger"
)

// Explanation is a provider-generated explanation of a verdict. It never
// carries a risk level; the deterministic classifier owns that.
type Explanation struct {
	Text     string   `json:"explanation"`
	TextBn   string   `json:"explanation_bn"`
	RedFlags []string `json:"red_flags,omitempty"`
	Provider string   `json:"-"`
}

// Provider generates a human-readable explanation for an already classified
// message.
type Provider interface {
	Name() string
	Explain(ctx context.Context, text string, level models.RiskLevel, redFlags []string) (*Explanation, error)
}

// apiError is a non-2xx response from a provider API
type apiError struct {
	provider string
	status   int
	body     string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.provider, e.status, e.body)
}

// permanent reports whether the error should disable the provider for the
// process lifetime. Auth and quota failures will not heal on retry.
func (e *apiError) permanent() bool {
	switch e.status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

// ChatProvider calls an OpenAI-compatible chat completion API. Both Groq and
// OpenAI speak this protocol.
type ChatProvider struct {
	name       string
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewChatProvider creates a provider for an OpenAI-compatible endpoint
func NewChatProvider(name string, cfg config.AIProviderConfig, log *logger.Logger) *ChatProvider {
	return &ChatProvider{
		name:       name,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{},
		logger:     log.WithComponent("ai-provider-" + name),
	}
}

// Name returns the provider name used in responses and the disabled set
func (p *ChatProvider) Name() string {
	return p.name
}

const systemPrompt = `You are a fraud-awareness assistant for a community scam-reporting service in Bangladesh. A deterministic rules engine has already classified a message; your only job is to explain the verdict to an ordinary user, in English and in Bangla.

Never change the risk level. Respond with valid JSON only, in this structure:
{
  "explanation": "short English explanation of the verdict",
  "explanation_bn": "the same explanation in Bangla",
  "red_flags": ["any additional red flags you notice"]
}`

// Explain asks the model for a bilingual explanation of the verdict
func (p *ChatProvider) Explain(ctx context.Context, text string, level models.RiskLevel, redFlags []string) (*Explanation, error) {
	userPrompt := buildPrompt(text, level, redFlags)

	reqBody := map[string]any{
		"model":       p.model,
		"temperature": 0.3,
		"max_tokens":  512,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apiError{provider: p.name, status: resp.StatusCode, body: string(body)}
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, err
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%s: empty completion", p.name)
	}

	exp, err := parseExplanation(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	exp.Provider = p.name
	return exp, nil
}

func buildPrompt(text string, level models.RiskLevel, redFlags []string) string {
	var sb strings.Builder
	sb.WriteString("Message:\n```\n")
	sb.WriteString(text)
	sb.WriteString("\n```\n\n")
	sb.WriteString(fmt.Sprintf("Rules engine verdict: %s risk.\n", level))
	if len(redFlags) > 0 {
		sb.WriteString("Detected red flags: ")
		sb.WriteString(strings.Join(redFlags, "; "))
		sb.WriteString("\n")
	}
	sb.WriteString("\nExplain this verdict in JSON format.")
	return sb.String()
}

// parseExplanation extracts the JSON payload from a completion, tolerating
// markdown code fences and surrounding prose.
func parseExplanation(content string) (*Explanation, error) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx != -1 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var exp Explanation
	if err := json.Unmarshal([]byte(content), &exp); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	if exp.Text == "" {
		return nil, fmt.Errorf("completion missing explanation")
	}
	return &exp, nil
}
