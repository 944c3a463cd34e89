package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// Codec converts the state envelope to and from file bytes.
type Codec interface {
	// Encode renders env in the codec's format.
	Encode(env core.Envelope) ([]byte, error)
	// Decode parses data. Malformed input yields core.ErrCorruptState.
	Decode(data []byte) (core.Envelope, error)
	// Name is a short format label, e.g. "json".
	Name() string
}

// DefaultCodecs returns the standard codecs keyed by file extension.
func DefaultCodecs() map[string]Codec {
	return map[string]Codec{
		".json": JSONCodec{Indent: true},
		".yaml": YAMLCodec{},
		".yml":  YAMLCodec{},
	}
}

// --- JSON Codec ---

// JSONCodec stores the envelope with the same layout browsers keep under the
// storage key: {"state": {...}, "version": n}.
type JSONCodec struct {
	// Indent pretty-prints the output.
	Indent bool
}

func (c JSONCodec) Name() string { return "json" }

func (c JSONCodec) Encode(env core.Envelope) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(env, "", "  ")
	}
	return json.Marshal(env)
}

func (c JSONCodec) Decode(data []byte) (core.Envelope, error) {
	var env core.Envelope
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Envelope{State: core.EmptyState()}, nil
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return core.Envelope{}, corrupt(err)
	}
	return env, nil
}

// --- YAML Codec ---

// YAMLCodec stores the envelope as YAML with the JSON key names.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Encode(env core.Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Decode(data []byte) (core.Envelope, error) {
	var env core.Envelope
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Envelope{State: core.EmptyState()}, nil
	}
	if err := yaml.Unmarshal(data, &env); err != nil {
		return core.Envelope{}, corrupt(err)
	}
	return env, nil
}

func corrupt(err error) error {
	if errors.Is(err, core.ErrCorruptState) {
		return err
	}
	return fmt.Errorf("%w: %v", core.ErrCorruptState, err)
}
