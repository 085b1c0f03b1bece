package format

import (
	"strings"
	"testing"
)

func TestHTMLHandler_ExtractSegments(t *testing.T) {
	h := NewHTMLHandler()

	content := `<html><body>
		<h1>Welcome</h1>
		<p>First paragraph</p>
		<p>Second <b>bold</b> paragraph</p>
	</body></html>`

	_, segments, err := h.Extract(content)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Welcome", "First paragraph", "Second", "bold", "paragraph"}
	if len(segments) != len(want) {
		t.Fatalf("Expected %d segments, got %v", len(want), segments)
	}
	for i, s := range want {
		if segments[i] != s {
			t.Errorf("Segment %d: expected %q, got %q", i, s, segments[i])
		}
	}
}

func TestHTMLHandler_IgnoredTags(t *testing.T) {
	h := NewHTMLHandler()

	content := `<html><body>
		<p>Visible text</p>
		<script>var x = "invisible";</script>
		<style>.hidden { display: none; }</style>
		<pre>preformatted block</pre>
		<code>fmt.Println("code")</code>
	</body></html>`

	_, segments, err := h.Extract(content)
	if err != nil {
		t.Fatal(err)
	}

	if len(segments) != 1 || segments[0] != "Visible text" {
		t.Errorf("Expected only visible text, got %v", segments)
	}
}

func TestHTMLHandler_NoTranslateAttribute(t *testing.T) {
	h := NewHTMLHandler()

	content := `<html><body>
		<p>Translate this</p>
		<p data-no-translate>Keep this verbatim</p>
		<div data-no-translate><span>Nested kept too</span></div>
	</body></html>`

	_, segments, err := h.Extract(content)
	if err != nil {
		t.Fatal(err)
	}

	if len(segments) != 1 || segments[0] != "Translate this" {
		t.Errorf("Expected protected content excluded, got %v", segments)
	}
}

func TestHTMLHandler_ApplyPreservesMarkup(t *testing.T) {
	h := NewHTMLHandler()

	content := `<html><body><h1>Hello</h1><p>Good <b>morning</b></p></body></html>`

	doc, segments, err := h.Extract(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %v", segments)
	}

	out, err := h.Apply(doc, []string{"Hola", "Buenos", "dias"})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"<h1>Hola</h1>", "Buenos", "<b>dias</b>"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "Hello") {
		t.Errorf("Original text leaked into output: %q", out)
	}
}

func TestHTMLHandler_ApplyPreservesWhitespace(t *testing.T) {
	h := NewHTMLHandler()

	content := "<html><body><p>\n  Hello there  \n</p></body></html>"

	doc, _, err := h.Extract(content)
	if err != nil {
		t.Fatal(err)
	}

	out, err := h.Apply(doc, []string{"Hola"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "\n  Hola  \n") {
		t.Errorf("Expected surrounding whitespace kept, got %q", out)
	}
}

func TestHTMLHandler_ApplyCountMismatch(t *testing.T) {
	h := NewHTMLHandler()

	doc, _, err := h.Extract("<html><body><p>One</p><p>Two</p></body></html>")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.Apply(doc, []string{"only one"}); err == nil {
		t.Error("Expected error for mismatched segment count")
	}
}

func TestHTMLHandler_ApplyWrongDocType(t *testing.T) {
	h := NewHTMLHandler()

	if _, err := h.Apply("not a parsed document", nil); err == nil {
		t.Error("Expected error for foreign document type")
	}
}

func TestSetLangAttribute(t *testing.T) {
	out := SetLangAttribute(`<html lang="en"><body><p>Hola</p></body></html>`, "ES")
	if !strings.Contains(out, `lang="es"`) {
		t.Errorf("Expected lang attribute set, got %q", out)
	}
	if strings.Contains(out, `lang="en"`) {
		t.Errorf("Expected original lang replaced, got %q", out)
	}
}
