package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ cfg Config }

func (s stubAdapter) ID() string     { return s.cfg.ID }
func (s stubAdapter) Config() Config { return s.cfg }
func (s stubAdapter) Generate(context.Context, string, GenerateContext) (*Response, error) {
	return &Response{Content: "ok"}, nil
}

func TestTypes_BuiltinsRegistered(t *testing.T) {
	types := Types()
	for _, want := range []string{"claude", "custom", "gemini", "grpc", "openai"} {
		assert.Contains(t, types, want)
	}
}

func TestRegisterFactory_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		RegisterFactory("openai", func(Config, Options) (Adapter, error) { return nil, nil })
	})
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(Config{ID: "x", Type: "carrier-pigeon"}, Options{})
	assert.ErrorContains(t, err, "unknown type")
}

func TestNew_MissingID(t *testing.T) {
	_, err := New(Config{Type: "openai"}, Options{})
	assert.Error(t, err)
}

func TestNew_CustomRequiresEndpoint(t *testing.T) {
	_, err := New(Config{ID: "c", Type: "custom"}, Options{})
	assert.ErrorContains(t, err, "endpoint is required")
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	r, err := NewRegistry(
		stubAdapter{Config{ID: "b"}},
		stubAdapter{Config{ID: "a"}},
		stubAdapter{Config{ID: "c"}},
	)
	require.NoError(t, err)

	var ids []string
	for _, a := range r.List() {
		ids = append(ids, a.ID())
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
	assert.Equal(t, 3, r.Len())

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID())

	_, ok = r.Get("zzz")
	assert.False(t, ok)
}

func TestRegistry_DuplicateID(t *testing.T) {
	_, err := NewRegistry(stubAdapter{Config{ID: "a"}}, stubAdapter{Config{ID: "a"}})
	assert.Error(t, err)
}

func TestBuildRegistry(t *testing.T) {
	r, err := BuildRegistry([]Config{
		{ID: "openai", Type: "openai"},
		{ID: "claude", Type: "claude"},
		{ID: "remote", Type: "grpc", Endpoint: "localhost:0"},
	}, Options{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 3, r.Len())
	_, ok := r.Get("remote")
	assert.True(t, ok)
}

func TestParseCapability(t *testing.T) {
	c, ok := ParseCapability(" Vision ")
	assert.True(t, ok)
	assert.Equal(t, CapabilityVision, c)

	_, ok = ParseCapability("telepathy")
	assert.False(t, ok)
}

func TestConfig_Supports(t *testing.T) {
	cfg := Config{Capabilities: []Capability{CapabilityChat, CapabilityCode}}
	assert.True(t, cfg.Supports(CapabilityCode))
	assert.False(t, cfg.Supports(CapabilityVision))
}
