package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List registry entries",
	Long:  "List all entries of the registry, optionally filtered by name prefix.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	f, err := newFetcher()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	count := 0
	for e := range f.Registry().List(prefix) {
		fmt.Fprintf(out, "%s\t%s\t%s\n", e.Name, e.Hash, e.URL)
		count++
	}

	if count == 0 {
		fmt.Fprintln(out, "(no entries)")
	}

	return nil
}
