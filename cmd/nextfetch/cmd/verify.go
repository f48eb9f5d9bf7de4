package cmd

import (
	"fmt"

	"github.com/bifrost2409/nextfetch"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Check local files against the registry",
	Long:  "Report whether the named files (default: every registry entry) are present locally with the registry hash. Nothing is downloaded.",
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	f, err := newFetcher()
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		files = f.Registry().Names()
	}

	out := cmd.OutOrStdout()
	bad := 0
	for _, name := range files {
		status, err := f.Verify(name)
		if err != nil {
			return err
		}
		if status != nextfetch.StatusOK {
			bad++
		}
		fmt.Fprintf(out, "%s\t%s\n", status, name)
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d files missing or stale in %s", bad, len(files), f.Path())
	}
	return nil
}
