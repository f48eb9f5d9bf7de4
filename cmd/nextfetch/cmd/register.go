package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bifrost2409/nextfetch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// recursive is shared by -r and --no-recursive; the last one given wins.
var recursive bool

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Build a registry for a directory tree",
	Long: `Hash the files below --root and write a registry with Nextcloud download
links into the metadata dir. The registry is not written when no file matches.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	flags := registerCmd.Flags()
	flags.String("root", "", "register relative to this directory")
	flags.StringP("dirs", "d", "", "comma separated list of directories relative to root to include")
	flags.BoolVarP(&recursive, "recursive", "r", false, "recurse through the listed directories")
	flags.VarPF(&negatedBool{target: &recursive}, "no-recursive", "", "disable recursion").NoOptDefVal = "true"
	flags.String("ext", "", "limit search to only this extension")
	flags.StringP("output", "o", defaultRegistry, "registry file name, relative to the metadata dir")
	flags.StringP("nextcloud", "n", defaultBaseURL, "Nextcloud base url")
	flags.StringP("share", "s", defaultFolder, "Nextcloud shared folder")
	flags.IntP("jobs", "j", 1, "number of files hashed in parallel")
	registerCmd.MarkFlagRequired("root")

	viper.BindPFlag("base_url", flags.Lookup("nextcloud"))
	viper.BindPFlag("folder", flags.Lookup("share"))
	viper.BindPFlag("jobs", flags.Lookup("jobs"))

	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	root, _ := flags.GetString("root")
	dirsFlag, _ := flags.GetString("dirs")
	ext, _ := flags.GetString("ext")
	output, _ := flags.GetString("output")

	dirs := []string{""}
	if dirsFlag != "" {
		dirs = strings.Split(dirsFlag, ",")
	}

	hashes, err := nextfetch.MakeRegistry(root, dirs,
		nextfetch.WithRecursive(recursive),
		nextfetch.WithExt(ext),
		nextfetch.WithJobs(viper.GetInt("jobs")),
	)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		slog.Warn("no files matched, registry not written", "root", root, "dirs", dirsFlag)
		return nil
	}

	out := metaPath(output)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}

	urler := nextfetch.NextcloudURLer(viper.GetString("base_url"), viper.GetString("folder"), filepath.Base(filepath.Clean(root)))
	if err := nextfetch.WriteRegistry(hashes, out, urler); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}

	slog.Info("registry written", "path", out, "files", len(hashes))
	return nil
}

// negatedBool is a boolean flag that clears target when set.
type negatedBool struct {
	target *bool
	set    bool
}

func (b *negatedBool) String() string { return strconv.FormatBool(b.set) }
func (b *negatedBool) Type() string   { return "bool" }

func (b *negatedBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set = v
	if v {
		*b.target = false
	}
	return nil
}
