package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/pkg"

	"gopkg.in/yaml.v3"
)

var (
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrUnknownFormat     = errors.New("unknown snapshot format")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func (f Format) String() string {
	return string(f)
}

func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

func (f Format) ContentType() string {
	if f == FormatYAML {
		return pkg.ContentTypeYAML
	}
	return pkg.ContentTypeJSON
}

// ParseFormat accepts json, yaml and yml, case insensitive. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Export renders the whole state, JSON indented with two spaces.
func Export(state store.State, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}

	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		// the JSON form is canonical; YAML mirrors it so plan items and
		// sets keep their tagged shapes
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("reparse state: %w", err)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("close yaml encoder: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Import parses an exported snapshot. Missing slices are filled with
// defaults for now. Unparseable input wraps ErrMalformedSnapshot.
func Import(payload []byte, format Format, now time.Time) (store.State, error) {
	partial, err := decodePartial(payload, format)
	if err != nil {
		return store.State{}, err
	}
	return partial.Merge(now), nil
}

func decodePartial(payload []byte, format Format) (store.PartialState, error) {
	var partial store.PartialState
	if len(bytes.TrimSpace(payload)) == 0 {
		return partial, fmt.Errorf("%w: empty payload", ErrMalformedSnapshot)
	}

	data := payload
	switch format {
	case FormatJSON:
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(payload, &doc); err != nil {
			return partial, fmt.Errorf("%w: %s", ErrMalformedSnapshot, err)
		}
		converted, err := json.Marshal(stringKeys(doc))
		if err != nil {
			return partial, fmt.Errorf("%w: %s", ErrMalformedSnapshot, err)
		}
		data = converted
	default:
		return partial, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if !isJSONObject(data) {
		return partial, fmt.Errorf("%w: top level must be an object", ErrMalformedSnapshot)
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return partial, fmt.Errorf("%w: %s", ErrMalformedSnapshot, err)
	}
	return partial, nil
}

// stringKeys rewrites the generic maps yaml produces for non-string keys
// (unquoted dates, numbers) into maps encoding/json can marshal.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
