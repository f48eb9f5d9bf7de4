package cmd

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

// runCLIContext runs the root command with fresh subcommand flags, since
// cobra keeps flag values and contexts between executions.
func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
		c.SetContext(ctx)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRegisterListVerify(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	data := filepath.Join(t.TempDir(), "Sim")
	for name, content := range map[string]string{"a.txt": "x", "sub/b.h5": "y"} {
		p := filepath.Join(data, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	meta := filepath.Join(t.TempDir(), "meta")
	raw := t.TempDir()
	dirs := []string{"--meta-data-dir", meta, "--raw-data-dir", raw}

	if _, err := runCLI(t, append(dirs, "register", "--root", data, "-r", "--ext", ".h5", "-s", "share")...); err != nil {
		t.Fatalf("register: %v", err)
	}

	manifest, err := os.ReadFile(filepath.Join(meta, defaultRegistry))
	if err != nil {
		t.Fatalf("read registry: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(manifest), "\n"), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "sub/b.h5 ") {
		t.Fatalf("unexpected registry:\n%s", manifest)
	}
	if !strings.HasSuffix(lines[0], "/index.php/s/share/download?path=Sim%2Fsub&files=b.h5") {
		t.Errorf("unexpected url in %q", lines[0])
	}

	out, err := runCLI(t, append(dirs, "list")...)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "sub/b.h5\t") {
		t.Errorf("list output missing entry:\n%s", out)
	}

	out, err = runCLI(t, append(dirs, "verify")...)
	if err == nil {
		t.Fatal("verify should fail while the file is not fetched")
	}
	if !strings.Contains(out, "missing\tsub/b.h5") {
		t.Errorf("verify output:\n%s", out)
	}

	local := filepath.Join(raw, "main", "sub", "b.h5")
	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, append(dirs, "verify", "sub/b.h5")...)
	if err != nil {
		t.Fatalf("verify after placing the file: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok\tsub/b.h5") {
		t.Errorf("verify output:\n%s", out)
	}
}

func writeFiles(t *testing.T, base string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(base, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func registryNames(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		names = append(names, strings.Fields(line)[0])
	}
	return names
}

func TestRegisterFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	data := filepath.Join(t.TempDir(), "Sim")
	writeFiles(t, data, map[string]string{
		"top.h5":      "t",
		"a/one.h5":    "1",
		"a/deep/2.h5": "2",
		"b/three.h5":  "3",
		"c/four.h5":   "4",
	})

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default is not recursive",
			want: []string{"top.h5"},
		},
		{
			name: "recursive",
			args: []string{"-r"},
			want: []string{"a/deep/2.h5", "a/one.h5", "b/three.h5", "c/four.h5", "top.h5"},
		},
		{
			name: "last flag wins recursive",
			args: []string{"--no-recursive", "-r", "-d", "b"},
			want: []string{"b/three.h5"},
		},
		{
			name: "last flag wins non recursive",
			args: []string{"-r", "--no-recursive", "-d", "a"},
			want: []string{"a/one.h5"},
		},
		{
			name: "comma separated dirs",
			args: []string{"-d", "a,b"},
			want: []string{"a/one.h5", "b/three.h5"},
		},
		{
			name: "comma separated dirs recursive",
			args: []string{"-d", "a,c", "-r"},
			want: []string{"a/deep/2.h5", "a/one.h5", "c/four.h5"},
		},
		{
			name: "nothing matched",
			args: []string{"-d", "missing", "-r"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := t.TempDir()
			args := append([]string{"--meta-data-dir", meta, "register", "--root", data}, tt.args...)
			if _, err := runCLI(t, args...); err != nil {
				t.Fatalf("register: %v", err)
			}
			got := registryNames(t, filepath.Join(meta, defaultRegistry))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("registered %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetchCanceled(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("y"))
	}))
	defer srv.Close()

	meta := t.TempDir()
	raw := t.TempDir()
	line := "sub/b.h5 " + sha256Hex("y") + " " + srv.URL + "/b.h5\n"
	if err := os.WriteFile(filepath.Join(meta, defaultRegistry), []byte(line), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runCLIContext(t, ctx, "--meta-data-dir", meta, "--raw-data-dir", raw, "fetch", "--no-progress", "sub/b.h5")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	var left []string
	filepath.Walk(raw, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			left = append(left, p)
		}
		return nil
	})
	if len(left) != 0 {
		t.Errorf("files left after canceled fetch: %v", left)
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
