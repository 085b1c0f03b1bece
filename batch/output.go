package batch

import (
	"path/filepath"
	"strings"
)

// DefaultOutputTemplate names outputs next to their sources with the target
// language inserted before the extension.
const DefaultOutputTemplate = "{name}.{lang}.{ext}"

// outputPath computes the deterministic output path for a source file. The
// template accepts {name} (base name without extension), {lang} (lowercased
// target language) and {ext} (extension without the dot). When an output
// directory is set and the file came from a directory scan, the source's
// relative subdirectory structure is mirrored beneath it.
func outputPath(src, baseDir, targetLang string, opts Options) string {
	ext := filepath.Ext(src)
	name := strings.TrimSuffix(filepath.Base(src), ext)
	ext = strings.TrimPrefix(ext, ".")

	tmpl := opts.OutputTemplate
	if tmpl == "" {
		tmpl = DefaultOutputTemplate
	}

	file := strings.NewReplacer(
		"{name}", name,
		"{lang}", strings.ToLower(targetLang),
		"{ext}", ext,
	).Replace(tmpl)

	dir := filepath.Dir(src)
	if opts.OutputDir != "" {
		dir = opts.OutputDir
		if baseDir != "" {
			if rel, err := filepath.Rel(baseDir, src); err == nil {
				if sub := filepath.Dir(rel); sub != "." {
					dir = filepath.Join(opts.OutputDir, sub)
				}
			}
		}
	}

	return filepath.Join(dir, file)
}
