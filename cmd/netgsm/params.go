package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/netgsm-go/netgsm/pkg/query"
)

// parseParamFlags turns repeated "key=value" and "key[prop]=value" flags
// into Params. A later scalar for the same key wins.
func parseParamFlags(raw []string) (query.Params, error) {
	scalars := map[string]string{}
	mappings := map[string]map[string]string{}

	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("param %q: want key=value", item)
		}

		name, prop, nested, err := splitBracketKey(key)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", item, err)
		}
		if !nested {
			if _, clash := mappings[name]; clash {
				return nil, fmt.Errorf("param %q: %s is already a mapping", item, name)
			}
			scalars[name] = value
			continue
		}
		if _, clash := scalars[name]; clash {
			return nil, fmt.Errorf("param %q: %s is already a scalar", item, name)
		}
		if mappings[name] == nil {
			mappings[name] = map[string]string{}
		}
		mappings[name][prop] = value
	}

	out := make(query.Params, len(scalars)+len(mappings))
	for k, v := range scalars {
		out[k] = query.String(v)
	}
	for k, m := range mappings {
		out[k] = query.StringMap(m)
	}
	return out, nil
}

// splitBracketKey splits "name[prop]" into its parts.
func splitBracketKey(key string) (name, prop string, nested bool, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.IndexByte(key, ']') >= 0 {
			return "", "", false, fmt.Errorf("unbalanced bracket")
		}
		return key, "", false, nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") {
		return "", "", false, fmt.Errorf("want name[prop]")
	}
	prop = key[open+1 : len(key)-1]
	if strings.ContainsAny(prop, "[]") {
		return "", "", false, fmt.Errorf("only one level of nesting is supported")
	}
	return key[:open], prop, true, nil
}

// parseParamsJSON decodes a JSON object into Params.
func parseParamsJSON(raw string) (query.Params, error) {
	if raw == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("params-json: %w", err)
	}
	return query.FromMap(m)
}

// readBody resolves a --data value: inline JSON, @file, or @- for stdin.
func readBody(data string, stdin io.Reader) (json.RawMessage, error) {
	if data == "" {
		return nil, nil
	}

	var b []byte
	switch {
	case data == "@-":
		var err error
		if b, err = io.ReadAll(stdin); err != nil {
			return nil, fmt.Errorf("read body from stdin: %w", err)
		}
	case strings.HasPrefix(data, "@"):
		var err error
		if b, err = os.ReadFile(data[1:]); err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	default:
		b = []byte(data)
	}

	b = bytes.TrimSpace(b)
	if !json.Valid(b) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	return json.RawMessage(b), nil
}
