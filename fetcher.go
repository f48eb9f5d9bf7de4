package nextfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bifrost2409/nextfetch/internal/remote"
	"github.com/bifrost2409/nextfetch/internal/store"
	"github.com/schollz/progressbar/v3"
)

// Fetcher resolves registry names to verified local files, downloading
// them from the share host when they are missing or stale.
type Fetcher struct {
	registry   *Registry
	store      *store.LocalStore
	downloader Downloader
	urler      URLFunc
	progress   io.Writer
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for a loaded registry.
func NewFetcher(reg *Registry, opts ...Option) (*Fetcher, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrInvalidRegistry)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	version := ResolveVersion(options.Version, options.DevVersion)
	root := expandPath(options.StorageDir)
	if version != "" {
		root = filepath.Join(root, version)
	}

	d := options.Downloader
	if d == nil {
		d = remote.NewHTTPDownloader(
			remote.WithFs(options.Fs),
			remote.WithAuth(options.Auth),
			remote.WithProgress(options.Progress),
			remote.WithLogger(options.Logger),
		)
	}

	return &Fetcher{
		registry:   reg,
		store:      store.NewLocalStore(options.Fs, root),
		downloader: d,
		urler:      options.URLFunc,
		progress:   options.Progress,
		logger:     options.Logger,
	}, nil
}

// Path returns the directory files are stored in.
func (f *Fetcher) Path() string { return f.store.Root() }

// Registry returns the registry the Fetcher serves.
func (f *Fetcher) Registry() *Registry { return f.registry }

// Fetch returns the local path of name, downloading it if the local copy is
// missing or does not match the registry hash. Names absent from the
// registry fail with ErrNotInRegistry before any network access.
func (f *Fetcher) Fetch(ctx context.Context, name string) (string, error) {
	entry, ok := f.registry.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotInRegistry, name)
	}

	dst, err := f.store.Path(name)
	if err != nil {
		return "", err
	}

	status, err := f.store.Check(name, entry.Hash)
	if err != nil {
		return "", fmt.Errorf("check %s: %w", name, err)
	}
	if status == StatusOK {
		f.logger.Debug("file up to date", "name", name, "path", dst)
		return dst, nil
	}

	url, err := f.urlFor(entry)
	if err != nil {
		return "", err
	}

	action := "downloading"
	if status == StatusStale {
		action = "updating"
	}
	f.logger.Info(action+" file", "name", name, "url", url, "path", dst)

	if err := f.downloader.Download(ctx, url, entry.Hash, dst); err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return dst, nil
}

// FetchAll fetches names in order and stops at the first failure. Paths of
// the files fetched before the failure are returned alongside the error.
func (f *Fetcher) FetchAll(ctx context.Context, names []string) ([]string, error) {
	var bar *progressbar.ProgressBar
	if f.progress != nil {
		bar = progressbar.NewOptions(len(names),
			progressbar.OptionSetWriter(f.progress),
			progressbar.OptionSetDescription("Fetching"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(f.progress, "\n")
			}),
		)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		p, err := f.Fetch(ctx, name)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
		if bar != nil {
			bar.Add(1)
		}
	}
	return paths, nil
}

// Verify reports the state of the local copy of name without downloading.
func (f *Fetcher) Verify(name string) (Status, error) {
	entry, ok := f.registry.Get(name)
	if !ok {
		return StatusMissing, fmt.Errorf("%w: %q", ErrNotInRegistry, name)
	}
	return f.store.Check(name, entry.Hash)
}

// Available reports whether the share host serves name. It needs a
// downloader that can probe URLs; the default HTTP downloader can.
func (f *Fetcher) Available(ctx context.Context, name string) (bool, error) {
	entry, ok := f.registry.Get(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotInRegistry, name)
	}
	prober, ok := f.downloader.(remote.Prober)
	if !ok {
		return false, fmt.Errorf("downloader %T cannot probe urls", f.downloader)
	}
	url, err := f.urlFor(entry)
	if err != nil {
		return false, err
	}
	return prober.Exists(ctx, url)
}

func (f *Fetcher) urlFor(e Entry) (string, error) {
	if e.URL != "" {
		return e.URL, nil
	}
	if f.urler == nil {
		return "", fmt.Errorf("%w: %q", ErrNoURL, e.Name)
	}
	return f.urler(e.Name), nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
