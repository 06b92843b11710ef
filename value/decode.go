package value

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
	"howett.net/plist"
)

// ErrUnknownEncoding is returned by Decode when the input bytes match
// none of the supported encodings.
var ErrUnknownEncoding = errors.New("value: unrecognized encoding")

// Decode parses data into a value tree, detecting the encoding from the
// leading bytes: binary or XML property lists, JSON, and YAML are
// supported. The result of a successful decode of a sprite sheet is
// always a Dictionary at the top level, but Decode itself places no
// constraint on the shape.
func Decode(data []byte) (Value, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case bytes.HasPrefix(data, []byte("bplist")):
		return FromPlist(data)
	case len(trimmed) > 0 && trimmed[0] == '<':
		return FromPlist(data)
	case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
		return FromJSON(data)
	case len(trimmed) > 0:
		return FromYAML(data)
	default:
		return Value{}, ErrUnknownEncoding
	}
}

// FromPlist parses an XML or binary property list into a value tree.
func FromPlist(data []byte) (Value, error) {
	var raw any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("value: parse plist: %w", err)
	}
	return FromAny(raw), nil
}

// FromJSON parses a JSON document into a value tree.
func FromJSON(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("value: parse json: %w", err)
	}
	return FromAny(raw), nil
}

// FromYAML parses a YAML document into a value tree.
func FromYAML(data []byte) (Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("value: parse yaml: %w", err)
	}
	return FromAny(raw), nil
}

// FromAny converts the generic decode result of encoding/json, yaml.v3
// or howett.net/plist into a value tree. Unsupported leaf types map to
// the Invalid value.
func FromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{}
	case bool:
		return BoolOf(t)
	case float64:
		return NumberOf(t)
	case float32:
		return NumberOf(float64(t))
	case int:
		return NumberOf(float64(t))
	case int64:
		return NumberOf(float64(t))
	case uint64:
		return NumberOf(float64(t))
	case string:
		return StringOf(t)
	case []byte:
		// plist <data> elements; kept as base64 text.
		return StringOf(base64.StdEncoding.EncodeToString(t))
	case time.Time:
		return StringOf(t.Format(time.RFC3339))
	case []any:
		a := make([]Value, len(t))
		for i, e := range t {
			a[i] = FromAny(e)
		}
		return ArrayOf(a)
	case map[string]any:
		d := make(Dict, len(t))
		for k, e := range t {
			d[k] = FromAny(e)
		}
		return DictOf(d)
	default:
		return Value{}
	}
}
