package main

import (
	"fmt"
	"strings"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const TOKEN_TYPE_COLUMN_WIDTH = 24

func (a *app) newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a template",
		Long: `Parses a template and prints one token per line: its line and column, its type
and its lexeme. FILE can be - to read the standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, doc, err := a.parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			output := a.outOutput()
			var b strings.Builder

			for _, token := range doc.Tokens {
				line, col := src.GetSpanLineColumn(token.Span)
				typeName := fmt.Sprintf("%-*s", TOKEN_TYPE_COLUMN_WIDTH, token.Type)

				fmt.Fprintf(&b, "%d:%d\t%s %q\n", line, col, output.String(typeName).Foreground(tokenColor(output, token.Type)), token.Raw(src.Code))
			}

			_, err = a.outW.Write([]byte(b.String()))
			return err
		},
	}
}

func tokenColor(output *termenv.Output, tokenType ast.TokenType) termenv.Color {
	switch {
	case tokenType.IsDelimiter():
		return output.Color("13")
	case tokenType.IsOperator():
		return output.Color("11")
	}

	switch tokenType {
	case ast.TEXT, ast.RAW_TEXT:
		return output.Color("7")
	case ast.TEMPLATE_COMMENT, ast.MARKUP_COMMENT:
		return output.Color("8")
	case ast.TAG_NAME, ast.DIRECTIVE_NAME, ast.DIRECTIVE_METHOD:
		return output.Color("12")
	case ast.ATTR_NAME:
		return output.Color("14")
	case ast.STRING, ast.ATTR_VALUE:
		return output.Color("10")
	case ast.NUMBER, ast.KEYWORD:
		return output.Color("9")
	}
	return output.Color("15")
}
