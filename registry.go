package nextfetch

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"
	"unicode"

	"github.com/bifrost2409/nextfetch/internal/compression"
	"github.com/bifrost2409/nextfetch/internal/digest"
	"github.com/spf13/afero"
)

// Entry is one line of a registry: a file, its content hash and where to
// download it from. URL is empty for two-column registry lines.
type Entry struct {
	Name string
	Hash string
	URL  string
}

// Registry maps file names to entries. It is built once and not modified
// afterwards.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a registry from entries. Hashes are normalized; a
// repeated name keeps the last entry.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: empty file name", ErrInvalidRegistry)
		}
		hash, err := digest.Parse(e.Hash)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRegistry, e.Name, err)
		}
		e.Hash = hash
		r.entries[e.Name] = e
	}
	return r, nil
}

// LoadRegistry reads a registry file. Files compressed with zstd are
// decompressed transparently.
func LoadRegistry(name string) (*Registry, error) {
	return LoadRegistryFs(afero.NewOsFs(), name)
}

// LoadRegistryFs is LoadRegistry on an arbitrary filesystem.
func LoadRegistryFs(fsys afero.Fs, name string) (*Registry, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ParseRegistry(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return r, nil
}

// ParseRegistry parses registry text:
//
//	# comment
//	<name> <hash> <url>
//	<name> <hash>
//
// Blank lines and lines starting with '#' are skipped.
func ParseRegistry(rd io.Reader) (*Registry, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	if compression.IsCompressed(data) {
		c, err := compression.NewCompressor(0)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		if data, err = c.Decompress(data); err != nil {
			return nil, fmt.Errorf("%w: decompress: %w", ErrInvalidRegistry, err)
		}
	}

	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 && len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 2 or 3 fields, got %d", ErrInvalidRegistry, lineNo, len(fields))
		}

		hash, err := digest.Parse(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidRegistry, lineNo, err)
		}

		e := Entry{Name: fields[0], Hash: hash}
		if len(fields) == 3 {
			e.URL = fields[2]
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return NewRegistry(entries...)
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns all file names in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List yields entries whose name starts with prefix, in name order.
func (r *Registry) List(prefix string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, name := range r.Names() {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if !yield(r.entries[name]) {
				return
			}
		}
	}
}

// Hashes returns the name to hash mapping, the shape MakeRegistry produces.
func (r *Registry) Hashes() map[string]string {
	m := make(map[string]string, len(r.entries))
	for name, e := range r.entries {
		m[name] = e.Hash
	}
	return m
}

// FormatRegistry renders hashes as registry text, one "<name> <hash> <url>"
// line per file sorted by name, with a trailing newline.
func FormatRegistry(hashes map[string]string, urler URLFunc) []byte {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+" "+hashes[name]+" "+urler(name))
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// WriteRegistry writes hashes to output, replacing any existing content.
// Output names ending in ".zst" are zstd compressed.
func WriteRegistry(hashes map[string]string, output string, urler URLFunc) error {
	return WriteRegistryFs(afero.NewOsFs(), hashes, output, urler)
}

// WriteRegistryFs is WriteRegistry on an arbitrary filesystem.
func WriteRegistryFs(fsys afero.Fs, hashes map[string]string, output string, urler URLFunc) error {
	for name := range hashes {
		if err := checkName(name); err != nil {
			return err
		}
	}
	data := FormatRegistry(hashes, urler)

	if compression.WantsCompression(output) {
		c, err := compression.NewCompressor(0)
		if err != nil {
			return err
		}
		defer c.Close()
		data = c.Compress(data)
	}

	return afero.WriteFile(fsys, output, data, 0644)
}

// checkName rejects names that would not survive a ParseRegistry round trip.
func checkName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty file name", ErrInvalidRegistry)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidRegistry, name)
	case strings.HasPrefix(name, "#"):
		return fmt.Errorf("%w: %q would read back as a comment", ErrInvalidRegistry, name)
	}
	return nil
}
