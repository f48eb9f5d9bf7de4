package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/bifrost2409/nextfetch/internal/digest"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

// Transport defaults. There is no overall client timeout: dataset files are
// large and a whole-request deadline would cut off slow but healthy transfers.
const (
	DefaultDialTimeout           = 30 * time.Second
	DefaultResponseHeaderTimeout = 60 * time.Second
	DefaultIdleConnTimeout       = 90 * time.Second
)

// HTTPDownloader downloads files over HTTP into an afero filesystem.
type HTTPDownloader struct {
	client   *http.Client
	auth     Authenticator
	fs       afero.Fs
	progress io.Writer
	logger   *slog.Logger
}

// Option configures an HTTPDownloader.
type Option func(*HTTPDownloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *HTTPDownloader) { d.client = client }
}

// WithAuth sets the authenticator used for every request.
func WithAuth(auth Authenticator) Option {
	return func(d *HTTPDownloader) { d.auth = auth }
}

// WithFs sets the filesystem downloads are written to.
func WithFs(fsys afero.Fs) Option {
	return func(d *HTTPDownloader) { d.fs = fsys }
}

// WithProgress renders a byte progress bar per download on w.
func WithProgress(w io.Writer) Option {
	return func(d *HTTPDownloader) { d.progress = w }
}

// WithLogger sets the logger; requests are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(d *HTTPDownloader) { d.logger = logger }
}

// NewHTTPDownloader creates a downloader writing to the OS filesystem.
func NewHTTPDownloader(opts ...Option) *HTTPDownloader {
	d := &HTTPDownloader{
		client: newDefaultClient(),
		auth:   NewDefaultAuthenticator(),
		fs:     afero.NewOsFs(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.client = withLogging(d.client, d.logger)
	return d
}

func newDefaultClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   DefaultDialTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       DefaultIdleConnTimeout,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Download implements Downloader.
func (d *HTTPDownloader) Download(ctx context.Context, url, expectedHash, dst string) error {
	req, err := d.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	dir := filepath.Dir(dst)
	if err := d.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(d.fs, dir, "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			d.fs.Remove(tmpName)
		}
	}()

	h := digest.New()
	w := io.MultiWriter(tmp, h)
	var bar *progressbar.ProgressBar
	if d.progress != nil {
		bar = newByteBar(d.progress, resp.ContentLength, filepath.Base(dst))
		w = io.MultiWriter(tmp, h, bar)
	}

	buf := make([]byte, digest.ChunkSize)
	if _, err := io.CopyBuffer(w, resp.Body, buf); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	if bar != nil {
		bar.Finish()
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if actual := digest.Sum(h); actual != expectedHash {
		return &IntegrityError{URL: url, Expected: expectedHash, Actual: actual}
	}

	if err := d.fs.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("install %s: %w", dst, err)
	}
	committed = true
	return nil
}

// Exists implements Prober with a HEAD request.
func (d *HTTPDownloader) Exists(ctx context.Context, url string) (bool, error) {
	req, err := d.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return false, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("head %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

func (d *HTTPDownloader) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", url, err)
	}
	if err := applyAuth(req, d.auth); err != nil {
		return nil, fmt.Errorf("authenticate %s: %w", req.URL.Host, err)
	}
	return req, nil
}

func newByteBar(w io.Writer, size int64, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

func withLogging(c *http.Client, logger *slog.Logger) *http.Client {
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	clone := *c
	clone.Transport = &loggingTransport{base: base, logger: logger}
	return &clone
}

type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Debug("http request", "method", req.Method, "url", req.URL.String())
	return t.base.RoundTrip(req)
}
