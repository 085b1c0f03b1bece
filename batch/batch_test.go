package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZaguanLabs/polyglot"
)

// fakeTranslator returns "[LANG] text" for each segment and tracks how many
// translations were in flight at once.
type fakeTranslator struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       int
	delay       time.Duration
	failOn      string
}

func (f *fakeTranslator) begin() {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
}

func (f *fakeTranslator) end() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeTranslator) translate(text, lang string) (string, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return "", errors.New("service unavailable")
	}
	return "[" + lang + "] " + text, nil
}

func (f *fakeTranslator) Translate(ctx context.Context, text string, params polyglot.TranslateParams) (*polyglot.Translation, error) {
	f.begin()
	defer f.end()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	out, err := f.translate(text, params.TargetLang)
	if err != nil {
		return nil, err
	}
	return &polyglot.Translation{Text: out, TargetLang: params.TargetLang}, nil
}

func (f *fakeTranslator) TranslateBatch(ctx context.Context, texts []string, params polyglot.TranslateParams) ([]polyglot.Translation, error) {
	f.begin()
	defer f.end()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	results := make([]polyglot.Translation, len(texts))
	for i, text := range texts {
		out, err := f.translate(text, params.TargetLang)
		if err != nil {
			return nil, err
		}
		results[i] = polyglot.Translation{Text: out, TargetLang: params.TargetLang}
	}
	return results, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if sub := filepath.Dir(path); sub != dir {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewCoordinator_ValidatesConcurrency(t *testing.T) {
	for _, n := range []int{0, -1, 101} {
		if _, err := NewCoordinator(&fakeTranslator{}, n); err == nil {
			t.Errorf("Expected error for concurrency %d", n)
		}
	}
	for _, n := range []int{1, 100} {
		if _, err := NewCoordinator(&fakeTranslator{}, n); err != nil {
			t.Errorf("Expected concurrency %d accepted, got %v", n, err)
		}
	}
}

func TestTranslateFiles_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "doc.txt", "hello world")

	c, err := NewCoordinator(&fakeTranslator{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateFiles(context.Background(), []string{src},
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err != nil {
		t.Fatalf("TranslateFiles failed: %v", err)
	}

	if len(result.Successful) != 1 {
		t.Fatalf("Expected 1 successful unit, got %+v", result)
	}

	want := filepath.Join(dir, "doc.es.txt")
	if result.Successful[0].OutputPath != want {
		t.Errorf("Expected output path %q, got %q", want, result.Successful[0].OutputPath)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	if string(data) != "[ES] hello world" {
		t.Errorf("Unexpected output content %q", data)
	}
}

func TestTranslateFiles_SkipsUnsupported(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "doc.txt", "hello")
	pdf := writeFile(t, dir, "doc.pdf", "binary")

	var progress []Progress
	c, err := NewCoordinator(&fakeTranslator{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateFiles(context.Background(), []string{txt, pdf},
		polyglot.TranslateParams{TargetLang: "FR"},
		Options{OnProgress: func(p Progress) { progress = append(progress, p) }})
	if err != nil {
		t.Fatalf("TranslateFiles failed: %v", err)
	}

	if len(result.Successful) != 1 || len(result.Skipped) != 1 {
		t.Fatalf("Expected 1 successful and 1 skipped, got %+v", Statistics(result))
	}
	if result.Skipped[0].Reason != SkipReasonUnsupported {
		t.Errorf("Expected skip reason %q, got %q", SkipReasonUnsupported, result.Skipped[0].Reason)
	}

	// Skipped units never fire progress and do not count toward Total.
	if len(progress) != 1 {
		t.Fatalf("Expected 1 progress event, got %d", len(progress))
	}
	if progress[0].Total != 1 || progress[0].Completed != 1 {
		t.Errorf("Unexpected progress %+v", progress[0])
	}
}

func TestTranslateFiles_ConcurrencyBound(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"} {
		paths = append(paths, writeFile(t, dir, name, "content of "+name))
	}

	ft := &fakeTranslator{delay: 20 * time.Millisecond}
	c, err := NewCoordinator(ft, 2)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateFiles(context.Background(), paths,
		polyglot.TranslateParams{TargetLang: "DE"}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Successful) != 6 {
		t.Fatalf("Expected 6 successful units, got %+v", Statistics(result))
	}
	if ft.maxInFlight > 2 {
		t.Errorf("Expected at most 2 translations in flight, saw %d", ft.maxInFlight)
	}
	if ft.calls != 6 {
		t.Errorf("Expected 6 service calls, got %d", ft.calls)
	}
}

func TestTranslateFiles_ProgressMonotonic(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		paths = append(paths, writeFile(t, dir, name, name))
	}

	var progress []Progress
	c, err := NewCoordinator(&fakeTranslator{delay: 5 * time.Millisecond}, 4)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.TranslateFiles(context.Background(), paths,
		polyglot.TranslateParams{TargetLang: "IT"},
		Options{OnProgress: func(p Progress) { progress = append(progress, p) }})
	if err != nil {
		t.Fatal(err)
	}

	if len(progress) != 4 {
		t.Fatalf("Expected 4 progress events, got %d", len(progress))
	}
	for i, p := range progress {
		if p.Completed != i+1 {
			t.Errorf("Event %d: expected Completed %d, got %d", i, i+1, p.Completed)
		}
		if p.Total != 4 {
			t.Errorf("Event %d: expected Total 4, got %d", i, p.Total)
		}
		if p.Current == "" {
			t.Errorf("Event %d: missing current path", i)
		}
	}
}

func TestTranslateFiles_FailureIsolation(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "fine content")
	bad := writeFile(t, dir, "bad.txt", "poison content")

	c, err := NewCoordinator(&fakeTranslator{failOn: "poison"}, 2)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateFiles(context.Background(), []string{good, bad},
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Successful) != 1 || len(result.Failed) != 1 {
		t.Fatalf("Expected 1 successful and 1 failed, got %+v", Statistics(result))
	}
	if result.Failed[0].SourcePath != bad {
		t.Errorf("Expected %q to fail, got %q", bad, result.Failed[0].SourcePath)
	}
	if result.Failed[0].Error == "" {
		t.Error("Expected failure message recorded")
	}

	if _, err := os.Stat(filepath.Join(dir, "good.es.txt")); err != nil {
		t.Errorf("Good file's output missing: %v", err)
	}
}

func TestTranslateFiles_EmptyInput(t *testing.T) {
	c, err := NewCoordinator(&fakeTranslator{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateFiles(context.Background(), nil,
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	stats := Statistics(result)
	if stats.Total != 0 {
		t.Errorf("Expected empty result, got %+v", stats)
	}
}

func TestTranslateFiles_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "doc.txt", "hello")

	ft := &fakeTranslator{}
	c, err := NewCoordinator(ft, 2)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := c.TranslateFiles(ctx, []string{src},
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Failed) != 1 {
		t.Fatalf("Expected queued unit recorded as failed, got %+v", Statistics(result))
	}
	if ft.calls != 0 {
		t.Errorf("Expected no service calls after cancel, got %d", ft.calls)
	}
}

func TestTranslateFiles_EmptyFileCopiedThrough(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "empty.txt", "")

	ft := &fakeTranslator{}
	c, err := NewCoordinator(ft, 1)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateFiles(context.Background(), []string{src},
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Successful) != 1 {
		t.Fatalf("Expected success, got %+v", Statistics(result))
	}
	if ft.calls != 0 {
		t.Errorf("Expected no service calls for empty file, got %d", ft.calls)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.es.txt")); err != nil {
		t.Errorf("Output missing: %v", err)
	}
}

func TestTranslateDirectory_Errors(t *testing.T) {
	c, err := NewCoordinator(&fakeTranslator{}, 1)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.TranslateDirectory(context.Background(), "/nonexistent/path",
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err == nil || !strings.Contains(err.Error(), "directory not found") {
		t.Errorf("Expected directory not found error, got %v", err)
	}

	file := writeFile(t, t.TempDir(), "file.txt", "x")
	_, err = c.TranslateDirectory(context.Background(), file,
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Expected not a directory error, got %v", err)
	}
}

func TestTranslateDirectory_RecursiveWithPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.md", "top")
	writeFile(t, dir, filepath.Join("sub", "nested.md"), "nested")
	writeFile(t, dir, filepath.Join("sub", "notes.txt"), "notes")

	outDir := t.TempDir()
	c, err := NewCoordinator(&fakeTranslator{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateDirectory(context.Background(), dir,
		polyglot.TranslateParams{TargetLang: "JA"},
		Options{Recursive: true, Pattern: "*.md", OutputDir: outDir})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Successful) != 2 {
		t.Fatalf("Expected 2 successful units, got %+v", Statistics(result))
	}

	// Source subdirectory structure is mirrored under the output directory.
	for _, want := range []string{
		filepath.Join(outDir, "top.ja.md"),
		filepath.Join(outDir, "sub", "nested.ja.md"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("Expected output %q: %v", want, err)
		}
	}
}

func TestTranslateDirectory_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", "top")
	writeFile(t, dir, filepath.Join("sub", "nested.txt"), "nested")

	c, err := NewCoordinator(&fakeTranslator{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.TranslateDirectory(context.Background(), dir,
		polyglot.TranslateParams{TargetLang: "ES"}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Successful) != 1 {
		t.Fatalf("Expected only the top-level file, got %+v", Statistics(result))
	}
	if result.Successful[0].SourcePath != filepath.Join(dir, "top.txt") {
		t.Errorf("Unexpected source %q", result.Successful[0].SourcePath)
	}
}

func TestOutputPath_Template(t *testing.T) {
	tests := []struct {
		name string
		src  string
		lang string
		opts Options
		want string
	}{
		{
			name: "default template",
			src:  filepath.Join("docs", "guide.md"),
			lang: "PT-BR",
			want: filepath.Join("docs", "guide.pt-br.md"),
		},
		{
			name: "custom template",
			src:  filepath.Join("docs", "guide.md"),
			lang: "ES",
			opts: Options{OutputTemplate: "{lang}/{name}.{ext}"},
			want: filepath.Join("docs", "es", "guide.md"),
		},
		{
			name: "output dir",
			src:  filepath.Join("docs", "guide.md"),
			lang: "ES",
			opts: Options{OutputDir: "out"},
			want: filepath.Join("out", "guide.es.md"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.src, "", tt.lang, tt.opts)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStatistics(t *testing.T) {
	result := &Result{
		Successful: []Unit{{}, {}},
		Failed:     []Unit{{}},
		Skipped:    []Unit{{}, {}, {}},
	}

	stats := Statistics(result)
	if stats.Total != 6 || stats.Successful != 2 || stats.Failed != 1 || stats.Skipped != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}
