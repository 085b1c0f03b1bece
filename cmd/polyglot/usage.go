package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newUsageCmd(flags *rootFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show account character usage against the plan limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			usage, err := a.client.Usage(cmd.Context())
			if err != nil {
				return a.reportTrace(err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(usage)
			}

			fmt.Printf("Characters used: %d / %d", usage.CharacterCount, usage.CharacterLimit)
			if usage.CharacterLimit > 0 {
				fmt.Printf(" (%.1f%%)", 100*float64(usage.CharacterCount)/float64(usage.CharacterLimit))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}
