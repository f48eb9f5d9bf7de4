package remote

import (
	"net/url"
	"path"
	"strings"
)

// URLFunc maps a registry name to its download URL.
type URLFunc func(name string) string

// ShareURL returns the base of a public share, e.g.
// "https://project.esss.dk/nextcloud/index.php/s/Diq9n3kITaEBtq7".
func ShareURL(baseURL, folderID string) string {
	return strings.TrimRight(baseURL, "/") + "/index.php/s/" + url.QueryEscape(folderID)
}

// NextcloudURLer returns a URLFunc for files of the shared folder folderID.
// Names are resolved below root, so "sub/b.txt" with root "Sim" becomes
//
//	<share>/download?path=Sim%2Fsub&files=b.txt
//
// The directory is escaped as a single query value, slashes included.
func NextcloudURLer(baseURL, folderID, root string) URLFunc {
	share := ShareURL(baseURL, folderID)
	return func(name string) string {
		p := path.Join(root, name)
		return share + "/download?path=" + url.QueryEscape(path.Dir(p)) + "&files=" + path.Base(p)
	}
}
