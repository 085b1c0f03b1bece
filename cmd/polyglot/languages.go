package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/polyglot"
)

func newLanguagesCmd(flags *rootFlags) *cobra.Command {
	var (
		source  bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages supported by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			var langs []polyglot.Language
			if source {
				langs, err = a.client.SourceLanguages(cmd.Context())
			} else {
				langs, err = a.client.TargetLanguages(cmd.Context())
			}
			if err != nil {
				return a.reportTrace(err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(langs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, lang := range langs {
				name := lang.Name
				if name == "" {
					name = polyglot.LanguageName(lang.Code)
				}
				note := ""
				if lang.SupportsFormality {
					note = "formality"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", lang.Code, name, note)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&source, "source", false, "list source languages instead of target languages")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}
