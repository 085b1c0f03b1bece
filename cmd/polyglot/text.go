package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/polyglot"
)

func newTextCmd(flags *rootFlags) *cobra.Command {
	var (
		targets    []string
		sourceLang string
		formality  string
		glossaryID string
		modelType  string
		context    string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "text [text...]",
		Short: "Translate text from arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			text := strings.Join(args, " ")
			if text == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = strings.TrimRight(string(data), "\n")
			}
			if text == "" {
				return fmt.Errorf("nothing to translate")
			}

			if len(targets) == 0 {
				if a.cfg.Defaults.TargetLang == "" {
					return fmt.Errorf("no target language; pass --to or set defaults.target_lang")
				}
				targets = []string{a.cfg.Defaults.TargetLang}
			}
			for i, t := range targets {
				targets[i] = polyglot.NormalizeLangCode(t)
			}

			params := polyglot.TranslateParams{
				SourceLang: polyglot.NormalizeLangCode(firstNonEmpty(sourceLang, a.cfg.Defaults.SourceLang)),
				Formality:  polyglot.Formality(firstNonEmpty(formality, a.cfg.Defaults.Formality)),
				GlossaryID: glossaryID,
				ModelType:  polyglot.ModelType(firstNonEmpty(modelType, a.cfg.Defaults.ModelType)),
				Context:    context,
			}

			if params.Formality != polyglot.FormalityDefault {
				for _, t := range targets {
					if !polyglot.SupportsFormality(t) {
						fmt.Fprintf(os.Stderr, "note: %s may not support formality\n", polyglot.LanguageName(t))
					}
				}
			}

			results, err := a.translator.TranslateToMultiple(cmd.Context(), text, params, targets)
			if err != nil {
				return a.reportTrace(err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(results)
			}

			for _, target := range targets {
				tr := results[target]
				if len(targets) > 1 {
					fmt.Printf("%s:\t%s\n", target, tr.Text)
				} else {
					fmt.Println(tr.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&targets, "to", "t", nil, "target language code (repeatable)")
	cmd.Flags().StringVarP(&sourceLang, "from", "f", "", "source language code (default: auto-detect)")
	cmd.Flags().StringVar(&formality, "formality", "", "formality: more, less, prefer_more, prefer_less")
	cmd.Flags().StringVar(&glossaryID, "glossary", "", "glossary id to apply")
	cmd.Flags().StringVar(&modelType, "model", "", "model type: quality_optimized, latency_optimized")
	cmd.Flags().StringVar(&context, "context", "", "disambiguation context (not translated)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output results as JSON")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
