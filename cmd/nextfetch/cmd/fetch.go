package cmd

import (
	"fmt"
	"os"

	"github.com/bifrost2409/nextfetch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultFiles are the example BIFROST runs fetched when no file is named.
var defaultFiles = []string{
	"20240829/BIFROST_20240829T192305.h5", // elastic incoherent
	"20240902/BIFROST_20240902T163047.h5", // elastic + inelastic incoherent
	"20240914/BIFROST_20240914T053723.h5", // elastic incoherent + phonon
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [files...]",
	Short: "Download data files listed in the registry",
	Long:  "Download the named files (default: the example BIFROST runs) into the raw data dir, skipping files already present with the registry hash.",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().Bool("no-progress", false, "do not render progress bars")
	fetchCmd.Flags().String("password", "", "password of a protected share")
	viper.BindPFlag("password", fetchCmd.Flags().Lookup("password"))

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		files = defaultFiles
	}

	var opts []nextfetch.Option
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		opts = append(opts, nextfetch.WithProgress(os.Stderr))
	}
	if pw := viper.GetString("password"); pw != "" {
		opts = append(opts, nextfetch.WithAuth(&nextfetch.ShareAuthenticator{
			Token:    viper.GetString("folder"),
			Password: pw,
		}))
	}

	f, err := newFetcher(opts...)
	if err != nil {
		return err
	}

	paths, err := f.FetchAll(cmd.Context(), files)
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return err
}

// newFetcher loads the configured registry and returns a Fetcher storing
// files below the raw data dir.
func newFetcher(opts ...nextfetch.Option) (*nextfetch.Fetcher, error) {
	reg, err := nextfetch.LoadRegistry(registryPath())
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	opts = append([]nextfetch.Option{
		nextfetch.WithStorageDir(rawDataDir()),
		nextfetch.WithVersion(viper.GetString("version"), viper.GetString("version_dev")),
		nextfetch.WithURLFunc(nextfetch.NextcloudURLer(
			viper.GetString("base_url"),
			viper.GetString("folder"),
			viper.GetString("share_root"),
		)),
	}, opts...)
	return nextfetch.NewFetcher(reg, opts...)
}
