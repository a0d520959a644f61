package formats

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// JSONOptions controls the layout of written files.
type JSONOptions struct {
	Indent       string
	FinalNewline bool
}

// DefaultJSONOptions returns the layout the game's own files use: two-space
// indentation and no trailing newline.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Indent: "  "}
}

// MarshalJSON writes v as indented JSON with every vector, quaternion, UV
// offset and mirror object kept on a single line. An empty indent writes
// compact JSON. Names are written verbatim, without HTML escaping.
func MarshalJSON(v any, opts JSONOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", opts.Indent)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "encoding json")
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if opts.Indent != "" {
		data = collapseVectors(data)
	}
	if opts.FinalNewline {
		data = append(data, '\n')
	}
	return data, nil
}

var vectorKeys = map[string]bool{`"x"`: true, `"y"`: true, `"z"`: true, `"w"`: true}

// collapseVectors joins every object whose members are all scalar x/y/z/w
// fields onto the line that opens it.
func collapseVectors(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	out := make([][]byte, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if bytes.HasSuffix(line, []byte("{")) {
			if joined, consumed, ok := joinVector(lines[i+1:]); ok {
				line = append(line[:len(line)-1:len(line)-1], joined...)
				out = append(out, line)
				i += consumed
				continue
			}
		}
		out = append(out, line)
	}
	return bytes.Join(out, []byte("\n"))
}

// joinVector reads the member lines following an opening brace. It returns
// the one-line object and the number of lines consumed, including the
// closing brace.
func joinVector(lines [][]byte) ([]byte, int, bool) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, raw := range lines {
		line := bytes.TrimSpace(raw)
		if bytes.HasPrefix(line, []byte("}")) {
			if i == 0 {
				return nil, 0, false
			}
			buf.Write(line)
			return buf.Bytes(), i + 1, true
		}
		key, value, found := bytes.Cut(line, []byte(": "))
		if !found || !vectorKeys[string(key)] {
			return nil, 0, false
		}
		value = bytes.TrimSuffix(value, []byte(","))
		if len(value) == 0 || value[0] == '{' || value[0] == '[' || value[0] == '"' {
			return nil, 0, false
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	return nil, 0, false
}
