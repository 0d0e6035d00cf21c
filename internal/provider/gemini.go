package provider

// #region imports
import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// #endregion

func init() {
	RegisterFactory("gemini", func(cfg Config, opts Options) (Adapter, error) {
		return NewGemini(cfg, opts.httpClient()), nil
	})
}

// #region wire

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// #endregion

// #region adapter

// Gemini talks to the generateContent endpoint of the Generative Language API.
type Gemini struct {
	cfg    Config
	client *http.Client
}

// NewGemini creates the adapter.
func NewGemini(cfg Config, client *http.Client) *Gemini {
	return &Gemini{cfg: cfg, client: client}
}

func (g *Gemini) ID() string     { return g.cfg.ID }
func (g *Gemini) Config() Config { return g.cfg }

// Generate maps assistant turns to the "model" role.
func (g *Gemini) Generate(ctx context.Context, prompt string, gc GenerateContext) (*Response, error) {
	if err := checkPrompt(g.cfg.ID, prompt); err != nil {
		return nil, err
	}

	contents := make([]geminiContent, 0, len(gc.History)+1)
	for _, m := range gc.History {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: prompt}}})

	req := geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.cfg.Temperature,
			MaxOutputTokens: g.cfg.MaxTokens,
		},
	}
	if gc.SystemPrompt != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: gc.SystemPrompt}}}
	}

	model := modelOr(g.cfg.Model, "gemini-pro")
	endpoint := endpointOr(g.cfg.Endpoint, "https://generativelanguage.googleapis.com/v1beta")
	full := endpoint + "/models/" + url.PathEscape(model) + ":generateContent"
	if g.cfg.APIKey != "" {
		full += "?key=" + url.QueryEscape(g.cfg.APIKey)
	}

	var resp geminiResponse
	if err := postJSON(ctx, g.client, g.cfg.ID, full, nil, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, newError(g.cfg.ID, 0, "no candidates in response", nil)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return nil, newError(g.cfg.ID, 0, "empty candidate", nil)
	}

	out := &Response{Content: b.String()}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &Usage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return out, nil
}

// #endregion
