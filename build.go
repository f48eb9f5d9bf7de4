package nextfetch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bifrost2409/nextfetch/internal/digest"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

type buildOptions struct {
	recursive bool
	ext       string
	jobs      int
	fs        afero.Fs
}

// BuildOption configures MakeRegistry.
type BuildOption func(*buildOptions)

func defaultBuildOptions() *buildOptions {
	return &buildOptions{
		recursive: true,
		jobs:      1,
		fs:        afero.NewOsFs(),
	}
}

// WithRecursive selects whether subdirectories are searched. Default true.
func WithRecursive(recursive bool) BuildOption {
	return func(o *buildOptions) { o.recursive = recursive }
}

// WithExt restricts the search to names ending in ext, e.g. ".h5".
// Glob characters are honored.
func WithExt(ext string) BuildOption {
	return func(o *buildOptions) { o.ext = ext }
}

// WithJobs sets how many files are hashed at once. Default 1.
func WithJobs(n int) BuildOption {
	return func(o *buildOptions) {
		if n > 0 {
			o.jobs = n
		}
	}
}

// WithBuildFs sets the filesystem searched.
func WithBuildFs(fsys afero.Fs) BuildOption {
	return func(o *buildOptions) { o.fs = fsys }
}

type fileHash struct {
	name string
	hash string
}

// MakeRegistry hashes every regular file found in dirs, each relative to
// base ("" means base itself). Keys are base-relative slash-separated paths.
// Files reached through more than one of dirs are hashed once.
func MakeRegistry(base string, dirs []string, opts ...BuildOption) (map[string]string, error) {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(o)
	}
	if len(dirs) == 0 {
		dirs = []string{""}
	}

	files := make(map[string]string)
	for _, d := range dirs {
		if err := o.collect(base, filepath.Join(base, filepath.FromSlash(d)), files); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	p := pool.NewWithResults[fileHash]().WithErrors().WithFirstError().WithMaxGoroutines(o.jobs)
	for _, name := range names {
		full := files[name]
		p.Go(func() (fileHash, error) {
			hash, err := digest.File(o.fs, full)
			if err != nil {
				return fileHash{}, fmt.Errorf("hash %s: %w", full, err)
			}
			return fileHash{name: name, hash: hash}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	hashes := make(map[string]string, len(results))
	for _, r := range results {
		hashes[r.name] = r.hash
	}
	return hashes, nil
}

// collect adds the matching files below dir to files, keyed by their path
// relative to base.
func (o *buildOptions) collect(base, dir string, files map[string]string) error {
	info, err := o.fs.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	visit := func(p string, info os.FileInfo) error {
		ok, err := o.matches(p, info)
		if err != nil || !ok {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = p
		return nil
	}

	if !o.recursive {
		infos, err := afero.ReadDir(o.fs, dir)
		if err != nil {
			return err
		}
		for _, info := range infos {
			if err := visit(filepath.Join(dir, info.Name()), info); err != nil {
				return err
			}
		}
		return nil
	}

	// Walk lstats its root; a trailing separator makes a symlinked dir resolve.
	root := dir
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return afero.Walk(o.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return visit(p, info)
	})
}

func (o *buildOptions) matches(p string, info os.FileInfo) (bool, error) {
	if o.ext != "" {
		ok, err := filepath.Match("*"+o.ext, info.Name())
		if err != nil {
			return false, fmt.Errorf("extension %q: %w", o.ext, err)
		}
		if !ok {
			return false, nil
		}
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := o.fs.Stat(p)
		if err != nil {
			return false, nil
		}
		info = target
	}
	return info.Mode().IsRegular(), nil
}
