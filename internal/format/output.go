package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formats lists the supported output formats; the first is the default.
var Formats = []string{"json", "yaml"}

// Envelope is the shape every command prints.
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Write writes v in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unknown format: %s (want %s)", format, strings.Join(Formats, "|"))
	}
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: Output is strict JSON only. Hints for fetching more data go in `meta`.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes v as YAML with the same keys the JSON output uses.
func WriteYAML(w io.Writer, v any) error {
	// Round-trip through JSON so json tags (and custom marshalers) pick the keys.
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLValue(generic)); err != nil {
		return err
	}
	return enc.Close()
}

// toYAMLValue turns json.Number into int64/float64 so YAML prints bare numbers.
func toYAMLValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = toYAMLValue(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = toYAMLValue(e)
		}
		return x
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	}
	return v
}
