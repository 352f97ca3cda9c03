package codec

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Registry maps logical type names to codecs. It is safe for concurrent use;
// registration normally happens once at startup.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewRegistry returns a registry holding the built-in codecs.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec)}
	for _, c := range Builtins() {
		r.codecs[c.Name()] = c
	}
	return r
}

// Register adds a custom codec under its name.
func (r *Registry) Register(c Codec) error {
	if c == nil || c.Name() == "" {
		return fmt.Errorf("register codec: codec must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codecs[c.Name()]; exists {
		return fmt.Errorf("register codec %q: %w", c.Name(), ErrDuplicateCodec)
	}
	r.codecs[c.Name()] = c
	return nil
}

// Lookup returns the codec registered under name.
func (r *Registry) Lookup(name string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[name]
	if !ok {
		return nil, fmt.Errorf("codec %q: %w", name, ErrUnknownCodec)
	}
	return c, nil
}

// Names lists the registered codec names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Infer picks the built-in codec for a raw Go value that is not tied to a
// column. It returns nil when no built-in codec fits.
func Infer(v any) Codec {
	switch v.(type) {
	case string:
		return TextCodec
	case bool:
		return BooleanCodec
	case time.Time:
		return TimestampCodec
	case []byte:
		return BlobCodec
	case float32, float64:
		return RealCodec
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return IntegerCodec
	default:
		return nil
	}
}
