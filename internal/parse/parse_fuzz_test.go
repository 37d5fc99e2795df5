package parse

import (
	"testing"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/google/go-cmp/cmp"
)

func FuzzParse(f *testing.F) {
	for _, template := range testTemplates {
		f.Add(template)
	}
	f.Add("<div><p></div>")
	f.Add("@if(a)@else@else@end")
	f.Add("{{ a ? b : c ? d : e }}")
	f.Add("<a href=\"{{ x }}\" {{ y }}>")

	f.Fuzz(func(t *testing.T, src string) {
		doc, err := Parse(src, ParserOptions{Timeout: -1})
		if err != nil {
			if _, ok := err.(*ParsingError); !ok {
				t.Fatalf("unexpected error type %T", err)
			}
			if doc != nil {
				t.Fatal("a document was returned along with an error")
			}
			return
		}

		checkDocumentInvariants(t, src, doc)

		again, err := Parse(src, ParserOptions{Timeout: -1})
		if err != nil {
			t.Fatalf("second parse failed: %s", err)
		}
		if diff := cmp.Diff(doc, again); diff != "" {
			t.Fatalf("parsing is not deterministic:\n%s", diff)
		}
		if ast.SExpr(doc) != ast.SExpr(again) {
			t.Fatal("s-expressions differ")
		}
	})
}

func BenchmarkParse(b *testing.B) {
	src := testTemplates[4] + testTemplates[7] + testTemplates[9]

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(src); err != nil {
			b.Fatal(err)
		}
	}
}
