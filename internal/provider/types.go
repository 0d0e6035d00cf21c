package provider

// #region imports
import (
	"context"
	"strings"
)

// #endregion

// #region capability

// Capability is a declared skill tag used to bias provider selection.
type Capability string

const (
	CapabilityChat        Capability = "chat"
	CapabilityAnalysis    Capability = "analysis"
	CapabilityCode        Capability = "code"
	CapabilityVision      Capability = "vision"
	CapabilityLongContext Capability = "long-context"
	CapabilityMultimodal  Capability = "multimodal"
	CapabilitySpecialized Capability = "specialized"
)

var knownCapabilities = map[Capability]bool{
	CapabilityChat:        true,
	CapabilityAnalysis:    true,
	CapabilityCode:        true,
	CapabilityVision:      true,
	CapabilityLongContext: true,
	CapabilityMultimodal:  true,
	CapabilitySpecialized: true,
}

// ParseCapability normalizes s and reports whether it names a known capability.
func ParseCapability(s string) (Capability, bool) {
	c := Capability(strings.ToLower(strings.TrimSpace(s)))
	return c, knownCapabilities[c]
}

// #endregion

// #region config

// Config is the static description of one provider. Immutable after startup.
type Config struct {
	ID           string
	Name         string
	Type         string // factory key: openai | claude | gemini | custom | grpc
	Endpoint     string
	APIKey       string
	Model        string
	Capabilities []Capability
	MaxContext   int // token budget
	Temperature  float64
	MaxTokens    int
}

// Supports reports whether the provider declares capability c.
func (c Config) Supports(capability Capability) bool {
	for _, have := range c.Capabilities {
		if have == capability {
			return true
		}
	}
	return false
}

// #endregion

// #region messages

// Role values for Message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn handed to an adapter.
type Message struct {
	Role    string
	Content string
}

// GenerateContext carries everything besides the prompt itself.
// Vendor-specific formatting is the adapter's job.
type GenerateContext struct {
	SystemPrompt string
	History      []Message
}

// Usage is token accounting reported by the upstream, when available.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the generated text plus optional usage.
type Response struct {
	Content string
	Usage   *Usage
}

// #endregion

// #region adapter

// Adapter turns a prompt plus conversation context into generated text.
// Implementations make exactly one upstream call per Generate and never retry.
type Adapter interface {
	ID() string
	Config() Config
	Generate(ctx context.Context, prompt string, gc GenerateContext) (*Response, error)
}

// #endregion
