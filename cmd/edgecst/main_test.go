package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cmdResult struct {
	statusCode int
	out        string
	err        string
}

func runCmd(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	var outW, errW bytes.Buffer
	args = append([]string{"--no-color"}, args...)
	statusCode := _main(context.Background(), args, strings.NewReader(stdin), &outW, &errW)

	return cmdResult{statusCode: statusCode, out: outW.String(), err: errW.String()}
}

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "page.edge", "<p>{{ a }}</p>")

	t.Run("tree", func(t *testing.T) {
		result := runCmd(t, "", "parse", path)

		assert.Equal(t, 0, result.statusCode)
		assert.Equal(t,
			"Document [0,14]\n"+
				"  Tag [0,14]\n"+
				"    OutputExpression [3,10]\n"+
				"      Identifier [6,7] \"a\"\n"+
				"    CloseTag [10,14] \"</p>\"\n",
			result.out,
		)
	})

	t.Run("S-expression", func(t *testing.T) {
		result := runCmd(t, "", "parse", "--format", "sexpr", path)

		assert.Equal(t, 0, result.statusCode)
		assert.Equal(t, "(document (tag p (output escaped (ident a))))\n", result.out)
	})

	t.Run("JSON with tokens", func(t *testing.T) {
		result := runCmd(t, "", "parse", "-f", "json", "--tokens", path)

		assert.Equal(t, 0, result.statusCode)
		assert.Contains(t, result.out, `"kind": "Document"`)
		assert.Contains(t, result.out, `"type": "TAG_OPEN_DELIMITER"`)
	})

	t.Run("YAML", func(t *testing.T) {
		result := runCmd(t, "", "parse", "-f", "yaml", path)

		assert.Equal(t, 0, result.statusCode)
		assert.True(t, strings.HasPrefix(result.out, "kind: Document\n"), result.out)
	})

	t.Run("standard input", func(t *testing.T) {
		result := runCmd(t, "@if(a)x@end", "parse", "-f", "sexpr", "-")

		assert.Equal(t, 0, result.statusCode)
		assert.Equal(t, "(document (directive if (params (positional (ident a))) (body (text \"x\"))))\n", result.out)
	})

	t.Run("syntax error", func(t *testing.T) {
		invalid := writeTemplate(t, dir, "invalid.edge", "a\n  <div>")
		result := runCmd(t, "", "parse", invalid)

		assert.Equal(t, ERROR_STATUS_CODE, result.statusCode)
		assert.Empty(t, result.out)
		assert.Equal(t, invalid+":2:3: UnclosedTag\n    <div>\n    ^\n", result.err)
	})

	t.Run("unknown format", func(t *testing.T) {
		result := runCmd(t, "", "parse", "-f", "xml", path)

		assert.Equal(t, ERROR_STATUS_CODE, result.statusCode)
		assert.Contains(t, result.err, "unknown output format")
	})

	t.Run("missing file", func(t *testing.T) {
		result := runCmd(t, "", "parse", filepath.Join(dir, "missing.edge"))

		assert.Equal(t, ERROR_STATUS_CODE, result.statusCode)
		assert.Contains(t, result.err, "failed to read template")
	})

	t.Run("format from the configuration file", func(t *testing.T) {
		configPath := writeTemplate(t, dir, "edgecst.yaml", "format: sexpr\n")
		result := runCmd(t, "", "--config", configPath, "parse", path)

		assert.Equal(t, 0, result.statusCode)
		assert.Equal(t, "(document (tag p (output escaped (ident a))))\n", result.out)
	})

	t.Run("invalid configuration file", func(t *testing.T) {
		configPath := writeTemplate(t, dir, "invalid.yaml", "format: xml\n")
		result := runCmd(t, "", "--config", configPath, "parse", path)

		assert.Equal(t, ERROR_STATUS_CODE, result.statusCode)
		assert.Contains(t, result.err, "invalid configuration")
	})
}

func TestTokensCommand(t *testing.T) {
	result := runCmd(t, "{{ a }}", "tokens", "-")

	line := func(pos, typ, lexeme string) string {
		return fmt.Sprintf("%s\t%-24s %q\n", pos, typ, lexeme)
	}

	assert.Equal(t, 0, result.statusCode)
	assert.Equal(t,
		line("1:1", "OUTPUT_OPEN", "{{")+
			line("1:4", "IDENTIFIER", "a")+
			line("1:6", "OUTPUT_CLOSE", "}}"),
		result.out,
	)
}

func TestCheckCommand(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "views/home.edge", "<main>@include('partials/nav')</main>")
	writeTemplate(t, root, "views/partials/nav.edge", "<nav>\n  <a href=\"/\">home</nav>")
	writeTemplate(t, root, "views/styles.edge", "<style>p {</style>")

	t.Run("syntax errors", func(t *testing.T) {
		result := runCmd(t, "", "check", "--root", root)

		assert.Equal(t, ERROR_STATUS_CODE, result.statusCode)
		assert.Equal(t,
			"views/partials/nav.edge:2:19: MismatchedCloseTag\n"+
				"3 file(s) checked, 1 error(s), 0 warning(s)\n",
			result.out,
		)
	})

	t.Run("raw block lint", func(t *testing.T) {
		result := runCmd(t, "", "check", "--root", root, "--lint", "views/styles.edge")

		assert.Equal(t, 0, result.statusCode)
		assert.Equal(t,
			"views/styles.edge:1:10: warning: css: unclosed '{'\n"+
				"1 file(s) checked, 0 error(s), 1 warning(s)\n",
			result.out,
		)
	})

	t.Run("no matching template", func(t *testing.T) {
		result := runCmd(t, "", "check", "--root", root, "**/*.html")

		assert.Equal(t, ERROR_STATUS_CODE, result.statusCode)
		assert.Contains(t, result.err, "no template matches")
	})
}
