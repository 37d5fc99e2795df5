package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/edgecst/edgecst/internal/config"
	"github.com/edgecst/edgecst/internal/cstcodec"
	"github.com/edgecst/edgecst/internal/parse"
	"github.com/edgecst/edgecst/internal/sourcecode"
	"github.com/spf13/cobra"
)

func (a *app) newParseCommand() *cobra.Command {
	var format string
	var includeTokens bool

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the concrete syntax tree of a template",
		Long: `Parses a template and prints its tree as an indented tree view, JSON, YAML or a
single-line S-expression. FILE can be - to read the standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.config.Format
			}
			if err := config.ValidateFormat(format); err != nil {
				return err
			}
			return a.runParse(cmd, args[0], format, includeTokens)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.DEFAULT_FORMAT, "output format: tree, json, yaml or sexpr")
	cmd.Flags().BoolVar(&includeTokens, "tokens", false, "include the token stream in JSON and YAML output")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, path string, format string, includeTokens bool) error {
	src, doc, err := a.parseFile(cmd, path)
	if err != nil {
		return err
	}

	switch format {
	case "tree":
		_, err = io.WriteString(a.outW, ast.GetTreeView(doc, src.Code))
	case "sexpr":
		_, err = fmt.Fprintln(a.outW, ast.SExpr(doc))
	default:
		err = cstcodec.Encode(a.outW, doc, cstcodec.EncodeOptions{
			Format:        cstcodec.Format(format),
			IncludeTokens: includeTokens,
			Indent:        "  ",
		})
	}
	return err
}

// parseFile reads and parses a template, syntax errors are written with their location.
func (a *app) parseFile(cmd *cobra.Command, path string) (sourcecode.Source, *ast.Document, error) {
	code, err := a.readSource(path)
	if err != nil {
		return sourcecode.Source{}, nil, err
	}

	name := path
	if path == "-" {
		name = "<stdin>"
	}
	src := sourcecode.Source{Name: name, Code: code}

	doc, err := parse.Parse(src.Code, a.config.ParserOptions(cmd.Context()))
	if err != nil {
		var parsingErr *parse.ParsingError
		if errors.As(err, &parsingErr) {
			a.writeSyntaxError(src, parsingErr.Locate(src))
			return src, nil, errAlreadyReported
		}
		return src, nil, err
	}
	return src, doc, nil
}

// writeSyntaxError writes the location and kind of the error followed by the line containing
// the error and a caret under the failing construct.
func (a *app) writeSyntaxError(src sourcecode.Source, err *parse.LocatedParsingError) {
	output := a.errOutput()

	fmt.Fprintf(a.errW, "%s %s\n",
		output.String(err.LocationRange().String()).Bold(),
		output.String(err.MessageWithoutLocation()).Foreground(output.Color("9")),
	)

	if err.Kind == parse.Cancelled {
		return
	}

	before, after := src.GetLineCut(err.Span.Start)

	var padding strings.Builder
	for _, r := range before {
		if r == '\t' {
			padding.WriteByte('\t')
		} else {
			padding.WriteByte(' ')
		}
	}

	fmt.Fprintf(a.errW, "  %s%s\n  %s%s\n", before, after, padding.String(), output.String("^").Foreground(output.Color("9")))
}
