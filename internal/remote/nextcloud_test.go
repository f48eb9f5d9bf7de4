package remote

import (
	"strings"
	"testing"
)

func TestNextcloudURLer(t *testing.T) {
	tests := []struct {
		base, folder, root, name string
		want                     string
	}{
		{
			base:   "https://project.esss.dk/nextcloud",
			folder: "Diq9n3kITaEBtq7",
			root:   "Sim",
			name:   "BIFROST.h5",
			want:   "https://project.esss.dk/nextcloud/index.php/s/Diq9n3kITaEBtq7/download?path=Sim&files=BIFROST.h5",
		},
		{
			base:   "https://project.esss.dk/nextcloud/",
			folder: "Diq9n3kITaEBtq7",
			root:   "raw",
			name:   "20240829/BIFROST_20240829T192305.h5",
			want:   "https://project.esss.dk/nextcloud/index.php/s/Diq9n3kITaEBtq7/download?path=raw%2F20240829&files=BIFROST_20240829T192305.h5",
		},
		{
			base:   "https://host//",
			folder: "a b&c",
			root:   "",
			name:   "a.txt",
			want:   "https://host/index.php/s/a+b%26c/download?path=.&files=a.txt",
		},
		{
			base:   "http://host",
			folder: "f",
			root:   "my data",
			name:   "x/y z/f.h5",
			want:   "http://host/index.php/s/f/download?path=my+data%2Fx%2Fy+z&files=f.h5",
		},
	}

	for _, tt := range tests {
		got := NextcloudURLer(tt.base, tt.folder, tt.root)(tt.name)
		if got != tt.want {
			t.Errorf("NextcloudURLer(%q, %q, %q)(%q)\n got  %s\n want %s", tt.base, tt.folder, tt.root, tt.name, got, tt.want)
		}
	}
}

func TestNextcloudURLerShape(t *testing.T) {
	bases := []string{"https://h", "https://h/", "https://h///", "https://h/sub/"}
	names := []string{"a.txt", "sub/b.txt", "deep/er/c d.h5", "odd&name"}

	for _, base := range bases {
		urler := NextcloudURLer(base, "id", "root")
		prefix := strings.TrimRight(base, "/") + "/"
		for _, name := range names {
			got := urler(name)
			if !strings.HasPrefix(got, prefix+"index.php/s/id/") {
				t.Errorf("%s does not start with %s", got, prefix)
			}
			if n := strings.Count(got, "download?path="); n != 1 {
				t.Errorf("%s contains %d download queries", got, n)
			}
		}
	}
}
