package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/batch"
)

func newFilesCmd(flags *rootFlags) *cobra.Command {
	var (
		target      string
		sourceLang  string
		formality   string
		glossaryID  string
		dir         string
		recursive   bool
		pattern     string
		outDir      string
		template    string
		concurrency int
		jsonOut     bool
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "files [path...]",
		Short: "Translate files, or a directory with --dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && dir == "" {
				return fmt.Errorf("pass file paths or --dir")
			}
			if len(args) > 0 && dir != "" {
				return fmt.Errorf("file paths and --dir are mutually exclusive")
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			if target == "" {
				target = a.cfg.Defaults.TargetLang
			}
			if target == "" {
				return fmt.Errorf("no target language; pass --to or set defaults.target_lang")
			}

			params := polyglot.TranslateParams{
				TargetLang: polyglot.NormalizeLangCode(target),
				SourceLang: polyglot.NormalizeLangCode(firstNonEmpty(sourceLang, a.cfg.Defaults.SourceLang)),
				Formality:  polyglot.Formality(firstNonEmpty(formality, a.cfg.Defaults.Formality)),
				GlossaryID: glossaryID,
			}

			if concurrency == 0 {
				concurrency = a.cfg.Batch.Concurrency
			}
			coord, err := batch.NewCoordinator(a.translator, concurrency)
			if err != nil {
				return err
			}

			opts := batch.Options{
				Recursive:      recursive,
				Pattern:        pattern,
				OutputDir:      outDir,
				OutputTemplate: template,
			}
			if !quiet && !jsonOut {
				opts.OnProgress = func(p batch.Progress) {
					fmt.Fprintf(os.Stderr, "\r[%d/%d] %s", p.Completed, p.Total, p.Current)
					if p.Completed == p.Total {
						fmt.Fprintln(os.Stderr)
					}
				}
			}

			var result *batch.Result
			if dir != "" {
				result, err = coord.TranslateDirectory(cmd.Context(), dir, params, opts)
			} else {
				result, err = coord.TranslateFiles(cmd.Context(), args, params, opts)
			}
			if err != nil {
				return a.reportTrace(err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			stats := batch.Statistics(result)
			fmt.Printf("%d translated, %d failed, %d skipped (%d total)\n",
				stats.Successful, stats.Failed, stats.Skipped, stats.Total)
			for _, u := range result.Failed {
				fmt.Printf("  failed: %s: %s\n", u.SourcePath, u.Error)
			}
			for _, u := range result.Skipped {
				fmt.Printf("  skipped: %s: %s\n", u.SourcePath, u.Reason)
			}
			if stats.Failed > 0 {
				return fmt.Errorf("%d file(s) failed", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "to", "t", "", "target language code")
	cmd.Flags().StringVarP(&sourceLang, "from", "f", "", "source language code (default: auto-detect)")
	cmd.Flags().StringVar(&formality, "formality", "", "formality: more, less, prefer_more, prefer_less")
	cmd.Flags().StringVar(&glossaryID, "glossary", "", "glossary id to apply")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "translate all supported files under this directory")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories (with --dir)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob filter on file names (with --dir)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory for translated files")
	cmd.Flags().StringVar(&template, "template", "", "output name template, default "+batch.DefaultOutputTemplate)
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "files in flight at once (1-100)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output the batch result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress line")

	return cmd
}
