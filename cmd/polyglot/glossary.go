package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/polyglot/api"
)

func newGlossaryCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage server-side glossaries",
	}
	cmd.AddCommand(
		newGlossaryListCmd(flags),
		newGlossaryCreateCmd(flags),
		newGlossaryDeleteCmd(flags),
	)
	return cmd
}

func newGlossaryListCmd(flags *rootFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List glossaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			glossaries, err := a.client.ListGlossaries(cmd.Context())
			if err != nil {
				return a.reportTrace(err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(glossaries)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLANGS\tENTRIES")
			for _, g := range glossaries {
				fmt.Fprintf(w, "%s\t%s\t%s>%s\t%d\n", g.ID, g.Name, g.SourceLang, g.TargetLang, g.EntryCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func newGlossaryCreateCmd(flags *rootFlags) *cobra.Command {
	var (
		sourceLang string
		targetLang string
		file       string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a glossary from tab-separated source/target pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			in := os.Stdin
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var entries []api.GlossaryEntry
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				source, target, ok := strings.Cut(line, "\t")
				if !ok {
					return fmt.Errorf("bad glossary line (want source<TAB>target): %q", line)
				}
				entries = append(entries, api.GlossaryEntry{
					Source: strings.TrimSpace(source),
					Target: strings.TrimSpace(target),
				})
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no glossary entries provided")
			}

			info, err := a.client.CreateGlossary(cmd.Context(), args[0], sourceLang, targetLang, entries)
			if err != nil {
				return a.reportTrace(err)
			}

			fmt.Printf("created glossary %s (%d entries)\n", info.ID, info.EntryCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceLang, "from", "f", "", "source language code")
	cmd.Flags().StringVarP(&targetLang, "to", "t", "", "target language code")
	cmd.Flags().StringVar(&file, "file", "", "read entries from a file instead of stdin")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newGlossaryDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <glossary-id>",
		Short: "Delete a glossary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.client.DeleteGlossary(cmd.Context(), args[0]); err != nil {
				return a.reportTrace(err)
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
