package provider

// #region imports
import (
	"context"
	"errors"
	"net/http"
)

// #endregion

func init() {
	RegisterFactory("custom", func(cfg Config, opts Options) (Adapter, error) {
		if cfg.Endpoint == "" {
			return nil, errors.New("custom provider " + cfg.ID + ": endpoint is required")
		}
		return NewCustom(cfg, opts.httpClient()), nil
	})
}

// #region wire

type customMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type customRequest struct {
	Prompt      string          `json:"prompt"`
	System      string          `json:"system,omitempty"`
	History     []customMessage `json:"history,omitempty"`
	Model       string          `json:"model,omitempty"`
	Temperature float64         `json:"temperature"`
}

// customResponse accepts the three field names self-hosted services tend to use.
type customResponse struct {
	Content  string `json:"content"`
	Response string `json:"response"`
	Text     string `json:"text"`
	Usage    *Usage `json:"usage,omitempty"`
}

// #endregion

// #region adapter

// Custom posts a plain JSON envelope to a self-hosted HTTP endpoint.
type Custom struct {
	cfg    Config
	client *http.Client
}

// NewCustom creates the adapter. Endpoint is the full URL, not a base.
func NewCustom(cfg Config, client *http.Client) *Custom {
	return &Custom{cfg: cfg, client: client}
}

func (c *Custom) ID() string     { return c.cfg.ID }
func (c *Custom) Config() Config { return c.cfg }

func (c *Custom) Generate(ctx context.Context, prompt string, gc GenerateContext) (*Response, error) {
	if err := checkPrompt(c.cfg.ID, prompt); err != nil {
		return nil, err
	}

	req := customRequest{
		Prompt:      prompt,
		System:      gc.SystemPrompt,
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
	}
	for _, m := range gc.History {
		req.History = append(req.History, customMessage{Role: m.Role, Content: m.Content})
	}
	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}

	var resp customResponse
	if err := postJSON(ctx, c.client, c.cfg.ID, c.cfg.Endpoint, headers, req, &resp); err != nil {
		return nil, err
	}

	content := resp.Content
	if content == "" {
		content = resp.Response
	}
	if content == "" {
		content = resp.Text
	}
	if content == "" {
		return nil, newError(c.cfg.ID, 0, "response has no content, response or text field", nil)
	}
	return &Response{Content: content, Usage: resp.Usage}, nil
}

// #endregion
