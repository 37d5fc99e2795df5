package cstcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, YAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown CST format %q, expected json or yaml", s)
}

type EncodeOptions struct {
	Format        Format
	IncludeTokens bool
	Indent        string //JSON only, no indentation if empty
}

// Encode writes the serialized form of n to w.
func Encode(w io.Writer, n ast.Node, opts EncodeOptions) error {
	node := FromNode(n)
	if !opts.IncludeTokens {
		node.Tokens = nil
	}

	switch opts.Format {
	case JSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetEscapeHTML(false)
		if opts.Indent != "" {
			encoder.SetIndent("", opts.Indent)
		}
		return encoder.Encode(node)
	case YAML:
		return yaml.NewEncoder(w).Encode(node)
	default:
		return fmt.Errorf("unknown CST format %q", opts.Format)
	}
}

func Marshal(n ast.Node, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, n, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a serialized CST. Integer props are decoded as float64 for
// JSON input and as uint64 for YAML input.
func Unmarshal(data []byte, format Format) (*Node, error) {
	var node Node

	switch format {
	case JSON, "":
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("failed to decode JSON CST: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("failed to decode YAML CST: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown CST format %q", format)
	}
	return &node, nil
}
