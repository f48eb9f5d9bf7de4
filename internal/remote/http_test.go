package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func sum(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			io.WriteString(w, body)
		case "/auth":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "token" || pass != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			io.WriteString(w, body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDownload(t *testing.T) {
	srv := newServer(t, "payload")
	dst := filepath.Join(t.TempDir(), "nested", "f.h5")

	d := NewHTTPDownloader()
	if err := d.Download(context.Background(), srv.URL+"/ok", sum("payload"), dst); err != nil {
		t.Fatalf("download: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("content = %q", got)
	}
	if names := dirEntries(t, filepath.Dir(dst)); len(names) != 1 {
		t.Errorf("expected only the destination file, got %v", names)
	}
}

func TestDownloadHashMismatch(t *testing.T) {
	srv := newServer(t, "tampered")
	dir := t.TempDir()
	dst := filepath.Join(dir, "f.h5")

	d := NewHTTPDownloader()
	err := d.Download(context.Background(), srv.URL+"/ok", sum("payload"), dst)
	if err == nil {
		t.Fatal("expected integrity error")
	}

	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IntegrityError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrIntegrity) {
		t.Error("IntegrityError should match ErrIntegrity")
	}
	if ie.Expected != sum("payload") || ie.Actual != sum("tampered") {
		t.Errorf("unexpected hashes in %v", ie)
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Errorf("mismatched download left files behind: %v", names)
	}
}

func TestDownloadKeepsStaleFileOnFailure(t *testing.T) {
	srv := newServer(t, "tampered")
	dst := filepath.Join(t.TempDir(), "f.h5")
	if err := os.WriteFile(dst, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewHTTPDownloader()
	if err := d.Download(context.Background(), srv.URL+"/ok", sum("payload"), dst); err == nil {
		t.Fatal("expected error")
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old" {
		t.Errorf("existing file was overwritten with %q", got)
	}
}

func TestDownloadStatus(t *testing.T) {
	srv := newServer(t, "payload")
	dir := t.TempDir()

	d := NewHTTPDownloader()
	err := d.Download(context.Background(), srv.URL+"/missing", sum("payload"), filepath.Join(dir, "f"))

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", se.StatusCode)
	}
	if errors.Is(err, ErrIntegrity) {
		t.Error("status errors are not integrity errors")
	}
}

func TestDownloadAuth(t *testing.T) {
	srv := newServer(t, "payload")
	dir := t.TempDir()

	anon := NewHTTPDownloader()
	if err := anon.Download(context.Background(), srv.URL+"/auth", sum("payload"), filepath.Join(dir, "a")); err == nil {
		t.Fatal("anonymous download of protected share should fail")
	}

	d := NewHTTPDownloader(WithAuth(&ShareAuthenticator{Token: "token", Password: "secret"}))
	if err := d.Download(context.Background(), srv.URL+"/auth", sum("payload"), filepath.Join(dir, "b")); err != nil {
		t.Fatalf("authenticated download: %v", err)
	}
}

func TestDownloadProgress(t *testing.T) {
	srv := newServer(t, "payload")
	dst := filepath.Join(t.TempDir(), "f.h5")

	d := NewHTTPDownloader(WithProgress(io.Discard))
	if err := d.Download(context.Background(), srv.URL+"/ok", sum("payload"), dst); err != nil {
		t.Fatalf("download with progress: %v", err)
	}
}

func TestDownloadCanceled(t *testing.T) {
	srv := newServer(t, "payload")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewHTTPDownloader()
	err := d.Download(ctx, srv.URL+"/ok", sum("payload"), filepath.Join(t.TempDir(), "f"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExists(t *testing.T) {
	srv := newServer(t, "payload")
	d := NewHTTPDownloader()

	ok, err := d.Exists(context.Background(), srv.URL+"/ok")
	if err != nil || !ok {
		t.Errorf("Exists(/ok) = %v, %v", ok, err)
	}
	ok, err = d.Exists(context.Background(), srv.URL+"/missing")
	if err != nil || ok {
		t.Errorf("Exists(/missing) = %v, %v", ok, err)
	}
}
