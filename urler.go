package nextfetch

import "github.com/bifrost2409/nextfetch/internal/remote"

// URLFunc maps a registry name to its download URL.
type URLFunc = remote.URLFunc

// NextcloudURLer returns a URLFunc building deep download links into the
// Nextcloud shared folder folderID, with names resolved below root.
func NextcloudURLer(baseURL, folderID, root string) URLFunc {
	return remote.NextcloudURLer(baseURL, folderID, root)
}
