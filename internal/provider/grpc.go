package provider

// #region imports
import (
	"context"
	"strings"

	"google.golang.org/grpc/status"

	"github.com/danielpatrickdp/orchestra/internal/codec"
)

// #endregion

func init() {
	RegisterFactory("grpc", func(cfg Config, opts Options) (Adapter, error) {
		client, err := codec.NewClient(cfg.Endpoint, opts.DialOptions...)
		if err != nil {
			return nil, err
		}
		return NewGRPC(cfg, client), nil
	})
}

// #region adapter

// GRPC forwards generation to a remote text-generation service over gRPC.
type GRPC struct {
	cfg    Config
	client *codec.Client
}

// NewGRPC wraps an existing codec client.
func NewGRPC(cfg Config, client *codec.Client) *GRPC {
	return &GRPC{cfg: cfg, client: client}
}

func (g *GRPC) ID() string     { return g.cfg.ID }
func (g *GRPC) Config() Config { return g.cfg }

// Close releases the underlying connection.
func (g *GRPC) Close() error { return g.client.Close() }

func (g *GRPC) Generate(ctx context.Context, prompt string, gc GenerateContext) (*Response, error) {
	if err := checkPrompt(g.cfg.ID, prompt); err != nil {
		return nil, err
	}

	req := codec.GenerateRequest{
		Prompt:      prompt,
		System:      gc.SystemPrompt,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
	}
	for _, m := range gc.History {
		req.History = append(req.History, codec.Turn{Role: m.Role, Content: m.Content})
	}

	result, err := g.client.Generate(ctx, req)
	if err != nil {
		return nil, newError(g.cfg.ID, 0, "rpc "+status.Code(err).String(), err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, newError(g.cfg.ID, 0, "empty text in response", nil)
	}

	out := &Response{Content: result.Text}
	if result.TotalTokens > 0 {
		out.Usage = &Usage{
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
			TotalTokens:      result.TotalTokens,
		}
	}
	return out, nil
}

// #endregion
