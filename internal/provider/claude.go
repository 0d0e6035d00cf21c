package provider

// #region imports
import (
	"context"
	"net/http"
	"strings"
)

// #endregion

const anthropicVersion = "2023-06-01"

func init() {
	RegisterFactory("claude", func(cfg Config, opts Options) (Adapter, error) {
		return NewClaude(cfg, opts.httpClient()), nil
	})
}

// #region wire

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// #endregion

// #region adapter

// Claude talks to the Anthropic messages API.
type Claude struct {
	cfg    Config
	client *http.Client
}

// NewClaude creates the adapter.
func NewClaude(cfg Config, client *http.Client) *Claude {
	return &Claude{cfg: cfg, client: client}
}

func (c *Claude) ID() string     { return c.cfg.ID }
func (c *Claude) Config() Config { return c.cfg }

// Generate folds any system-role history into the top-level system field,
// since the messages array only accepts user and assistant turns.
func (c *Claude) Generate(ctx context.Context, prompt string, gc GenerateContext) (*Response, error) {
	if err := checkPrompt(c.cfg.ID, prompt); err != nil {
		return nil, err
	}

	system := gc.SystemPrompt
	msgs := make([]claudeMessage, 0, len(gc.History)+1)
	for _, m := range gc.History {
		if m.Role == RoleSystem {
			system = strings.TrimSpace(system + "\n" + m.Content)
			continue
		}
		msgs = append(msgs, claudeMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, claudeMessage{Role: RoleUser, Content: prompt})

	maxTokens := c.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	req := claudeRequest{
		Model:       modelOr(c.cfg.Model, "claude-3-sonnet-20240229"),
		System:      system,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
	}
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var resp claudeResponse
	url := endpointOr(c.cfg.Endpoint, "https://api.anthropic.com/v1") + "/messages"
	if err := postJSON(ctx, c.client, c.cfg.ID, url, headers, req, &resp); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return nil, newError(c.cfg.ID, 0, "no text content in response", nil)
	}

	out := &Response{Content: b.String()}
	if resp.Usage != nil {
		out.Usage = &Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}
	return out, nil
}

// #endregion
