package provider

// #region imports
import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"google.golang.org/grpc"
)

// #endregion

// #region factory

// Options are the shared transport knobs handed to every factory.
type Options struct {
	HTTPClient  *http.Client
	DialOptions []grpc.DialOption
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

// Factory builds an Adapter from its Config.
type Factory func(cfg Config, opts Options) (Adapter, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory makes a provider type available to New. Vendor files call
// it from init(). Registering the same type twice panics.
func RegisterFactory(providerType string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, exists := factories[providerType]; exists {
		panic(fmt.Sprintf("provider: factory %q already registered", providerType))
	}
	factories[providerType] = f
}

// Types lists registered factory keys, sorted.
func Types() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	out := make([]string, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// New builds an adapter through the factory registered for cfg.Type.
func New(cfg Config, opts Options) (Adapter, error) {
	if cfg.ID == "" {
		return nil, errors.New("provider config: missing id")
	}
	factoriesMu.RLock()
	f, ok := factories[cfg.Type]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s: unknown type %q", cfg.ID, cfg.Type)
	}
	return f(cfg, opts)
}

// #endregion

// #region registry

// Registry holds adapters in registration order. Selection ties are broken
// by this order, so it must stay stable.
type Registry struct {
	mu    sync.RWMutex
	order []Adapter
	byID  map[string]Adapter
}

// NewRegistry creates a registry pre-populated with adapters.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{byID: make(map[string]Adapter)}
	for _, a := range adapters {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends an adapter. Duplicate ids are rejected.
func (r *Registry) Register(a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[a.ID()]; exists {
		return fmt.Errorf("provider %s already registered", a.ID())
	}
	r.byID[a.ID()] = a
	r.order = append(r.order, a)
	return nil
}

// Get returns the adapter registered under id.
func (r *Registry) Get(id string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// List returns adapters in registration order.
func (r *Registry) List() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Adapter, len(r.order))
	copy(out, r.order)
	return out
}

// Len is the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Close releases adapters that hold connections.
func (r *Registry) Close() error {
	var errs []error
	for _, a := range r.List() {
		if c, ok := a.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", a.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// #endregion

// #region build

// BuildRegistry constructs one adapter per config, in order.
func BuildRegistry(cfgs []Config, opts Options) (*Registry, error) {
	r := &Registry{byID: make(map[string]Adapter)}
	for _, cfg := range cfgs {
		a, err := New(cfg, opts)
		if err != nil {
			r.Close()
			return nil, err
		}
		if err := r.Register(a); err != nil {
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

// #endregion
