package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region wire
// The text-generation service speaks google.protobuf.Struct in both
// directions, so callers need no generated stubs.
const (
	ServiceName    = "orchestra.textgen.v1.TextGeneration"
	GenerateMethod = "/" + ServiceName + "/Generate"
)

// #endregion wire

// #region types
// Turn is one prior message sent as history.
type Turn struct {
	Role    string
	Content string
}

// GenerateRequest is the input of a Generate RPC call.
type GenerateRequest struct {
	Prompt      string
	System      string
	Model       string
	Temperature float64
	History     []Turn
}

// GenerateResult holds the response from a Generate RPC call.
type GenerateResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// #endregion types

// #region client-struct
// Client wraps the gRPC connection to a remote text-generation service.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to the service at addr. Plaintext transport is the
// default; later options override it.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	dial := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, dial...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection.
// Used for testing without a real network dial.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection if this client owns one.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region generate
// Generate sends one prompt with its history and returns the generated text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	history := make([]any, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, map[string]any{"role": t.Role, "content": t.Content})
	}
	in, err := structpb.NewStruct(map[string]any{
		"prompt":      req.Prompt,
		"system":      req.System,
		"model":       req.Model,
		"temperature": req.Temperature,
		"history":     history,
	})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("encode generate request: %w", err)
	}

	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, GenerateMethod, in, out); err != nil {
		return GenerateResult{}, fmt.Errorf("generate rpc: %w", err)
	}

	fields := out.GetFields()
	result := GenerateResult{Text: fields["text"].GetStringValue()}
	if usage := fields["usage"].GetStructValue(); usage != nil {
		u := usage.GetFields()
		result.PromptTokens = int(u["prompt_tokens"].GetNumberValue())
		result.CompletionTokens = int(u["completion_tokens"].GetNumberValue())
		result.TotalTokens = int(u["total_tokens"].GetNumberValue())
	}
	return result, nil
}

// #endregion generate
