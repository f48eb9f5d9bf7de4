package nextfetch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Options configures a Fetcher.
type Options struct {
	StorageDir string
	Version    string
	DevVersion string
	URLFunc    URLFunc
	Downloader Downloader
	Auth       Authenticator
	Progress   io.Writer
	Logger     *slog.Logger
	Fs         afero.Fs
}

// Option is a functional option for configuring NewFetcher.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		StorageDir: defaultStorageDir(),
		DevVersion: DefaultDevVersion,
		Logger:     slog.Default(),
		Fs:         afero.NewOsFs(),
	}
}

// WithStorageDir sets the local directory files are fetched into.
func WithStorageDir(dir string) Option {
	return func(o *Options) { o.StorageDir = dir }
}

// WithVersion stores files below a version subdirectory. Unreleased versions
// share devVersion, see ResolveVersion.
func WithVersion(version, devVersion string) Option {
	return func(o *Options) {
		o.Version = version
		o.DevVersion = devVersion
	}
}

// WithURLFunc sets how download URLs are built for registry lines that
// carry no URL, typically a NextcloudURLer.
func WithURLFunc(urler URLFunc) Option {
	return func(o *Options) { o.URLFunc = urler }
}

// WithDownloader replaces the HTTP downloader. The downloader must write to
// the same filesystem as the Fetcher.
func WithDownloader(d Downloader) Option {
	return func(o *Options) { o.Downloader = d }
}

// WithAuth sets credentials for the default downloader.
func WithAuth(auth Authenticator) Option {
	return func(o *Options) { o.Auth = auth }
}

// WithProgress renders progress bars on w: one over the requested files and
// one per download.
func WithProgress(w io.Writer) Option {
	return func(o *Options) { o.Progress = w }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithFs sets the filesystem used for local storage.
func WithFs(fsys afero.Fs) Option {
	return func(o *Options) { o.Fs = fsys }
}

func defaultStorageDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "nextfetch", "raw")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "nextfetch", "raw")
	}
	return filepath.Join(".nextfetch", "raw")
}
