package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Step is one entry of a frame script: either a local user submission or an
// inbound frame. Raw keeps the original frame bytes so that undecodable or
// untyped frames can still be reported.
type Step struct {
	User  string
	Frame *Inbound
	Raw   []byte
	Line  int
}

func (s Step) IsUser() bool { return s.Frame == nil && s.Raw == nil }

type ScriptFormat string

const (
	FormatJSONL ScriptFormat = "jsonl"
	FormatYAML  ScriptFormat = "yaml"
)

// DetectFormat picks the script format from the file name, falling back to
// sniffing the first significant character.
func DetectFormat(name string, data []byte) ScriptFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '>' || trimmed[0] == '#') {
		return FormatJSONL
	}
	return FormatYAML
}

// DecodeScript reads a frame script.
//
// JSON Lines: one frame per line, `> text` for a user submission, blank lines
// and `#` comments skipped. YAML: a list whose entries are either
// `{user: text}` or a frame mapping.
func DecodeScript(r io.Reader, format ScriptFormat) ([]Step, error) {
	switch format {
	case FormatYAML:
		return decodeYAMLScript(r)
	case FormatJSONL, "":
		return decodeJSONLScript(r)
	default:
		return nil, errors.Errorf("unknown script format %q", format)
	}
}

func decodeJSONLScript(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			steps = append(steps, Step{User: strings.TrimSpace(line[1:]), Line: lineNo})
			continue
		}
		steps = append(steps, frameStep([]byte(line), lineNo))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read jsonl script")
	}
	return steps, nil
}

func decodeYAMLScript(r io.Reader) ([]Step, error) {
	var entries []map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decode yaml script")
	}
	steps := make([]Step, 0, len(entries))
	for i, entry := range entries {
		if u, ok := entry["user"]; ok && len(entry) == 1 {
			s, ok := u.(string)
			if !ok {
				return nil, errors.Errorf("script entry %d: user must be a string", i)
			}
			steps = append(steps, Step{User: s, Line: i + 1})
			continue
		}
		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "script entry %d", i)
		}
		steps = append(steps, frameStep(raw, i+1))
	}
	return steps, nil
}

func frameStep(raw []byte, line int) Step {
	st := Step{Raw: raw, Line: line}
	if in, err := DecodeInbound(raw); err == nil {
		st.Frame = &in
	}
	return st
}

// DecodeFrames reads a YAML list of inbound frames, as used by the mock
// backend. User entries are rejected.
func DecodeFrames(r io.Reader) ([]Inbound, error) {
	steps, err := decodeYAMLScript(r)
	if err != nil {
		return nil, err
	}
	frames := make([]Inbound, 0, len(steps))
	for _, st := range steps {
		if st.IsUser() {
			return nil, errors.Errorf("script entry %d: user entries are not allowed here", st.Line)
		}
		if st.Frame == nil {
			return nil, errors.Errorf("script entry %d: frame has no type", st.Line)
		}
		frames = append(frames, *st.Frame)
	}
	return frames, nil
}
