package check

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

type Report struct {
	Files []FileResult
}

func (r *Report) SyntaxErrorCount() (count int) {
	for _, file := range r.Files {
		if _, ok := file.SyntaxError(); ok {
			count++
		}
	}
	return
}

// ErrorCount returns the number of files that could not be read or parsed.
func (r *Report) ErrorCount() (count int) {
	for _, file := range r.Files {
		if file.Err != nil {
			count++
		}
	}
	return
}

func (r *Report) WarningCount() (count int) {
	for _, file := range r.Files {
		count += len(file.Lint)
	}
	return
}

func (r *Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

// Write writes a line per error and warning followed by a summary line. Errors are formatted
// as 'path:line:column: Kind', warnings as 'path:line:column: warning: language: message'.
func (r *Report) Write(w io.Writer, profile termenv.Profile) error {
	output := termenv.NewOutput(w, termenv.WithProfile(profile))
	errorColor := output.Color("9")
	warningColor := output.Color("11")

	var b strings.Builder

	for _, file := range r.Files {
		if syntaxErr, ok := file.SyntaxError(); ok {
			b.WriteString(output.String(syntaxErr.LocationRange().String()).Bold().String())
			b.WriteByte(' ')
			b.WriteString(output.String(syntaxErr.MessageWithoutLocation()).Foreground(errorColor).String())
			b.WriteByte('\n')
		} else if file.Err != nil {
			b.WriteString(output.String(file.Err.Error()).Foreground(errorColor).String())
			b.WriteByte('\n')
		}

		for _, diagnostic := range file.Lint {
			location := file.Source.GetSourcePosition(diagnostic.Span).String()

			b.WriteString(output.String(location).Bold().String())
			b.WriteByte(' ')
			b.WriteString(output.String("warning:").Foreground(warningColor).String())
			fmt.Fprintf(&b, " %s: %s\n", diagnostic.Language, diagnostic.Message)
		}
	}

	fmt.Fprintf(&b, "%d file(s) checked, %d error(s), %d warning(s)\n", len(r.Files), r.ErrorCount(), r.WarningCount())

	_, err := io.WriteString(w, b.String())
	return err
}
