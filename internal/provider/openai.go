package provider

// #region imports
import (
	"context"
	"net/http"
)

// #endregion

func init() {
	RegisterFactory("openai", func(cfg Config, opts Options) (Adapter, error) {
		return NewOpenAI(cfg, opts.httpClient()), nil
	})
}

// #region wire

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// #endregion

// #region adapter

// OpenAI talks to an OpenAI-compatible /chat/completions endpoint.
type OpenAI struct {
	cfg    Config
	client *http.Client
}

// NewOpenAI creates the adapter. Endpoint defaults to the public API base.
func NewOpenAI(cfg Config, client *http.Client) *OpenAI {
	return &OpenAI{cfg: cfg, client: client}
}

func (o *OpenAI) ID() string     { return o.cfg.ID }
func (o *OpenAI) Config() Config { return o.cfg }

// Generate sends system prompt, history and prompt as one chat completion.
func (o *OpenAI) Generate(ctx context.Context, prompt string, gc GenerateContext) (*Response, error) {
	if err := checkPrompt(o.cfg.ID, prompt); err != nil {
		return nil, err
	}

	msgs := make([]openAIMessage, 0, len(gc.History)+2)
	if gc.SystemPrompt != "" {
		msgs = append(msgs, openAIMessage{Role: RoleSystem, Content: gc.SystemPrompt})
	}
	for _, m := range gc.History {
		msgs = append(msgs, openAIMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, openAIMessage{Role: RoleUser, Content: prompt})

	req := openAIRequest{
		Model:       modelOr(o.cfg.Model, "gpt-4"),
		Messages:    msgs,
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	}
	headers := map[string]string{}
	if o.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + o.cfg.APIKey
	}

	var resp openAIResponse
	url := endpointOr(o.cfg.Endpoint, "https://api.openai.com/v1") + "/chat/completions"
	if err := postJSON(ctx, o.client, o.cfg.ID, url, headers, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, newError(o.cfg.ID, 0, "no choices in response", nil)
	}

	out := &Response{Content: resp.Choices[0].Message.Content}
	if resp.Usage != nil {
		out.Usage = &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

// #endregion
