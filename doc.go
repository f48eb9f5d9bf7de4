// Package nextfetch fetches versioned data files from a Nextcloud shared
// folder and verifies them against a registry of sha256 hashes.
//
// A registry is a text file with one "<name> <sha256> <url>" line per file,
// sorted by name. Building one for a directory tree:
//
//	hashes, _ := nextfetch.MakeRegistry("/data/Sim", []string{""}, nextfetch.WithExt(".h5"))
//	urler := nextfetch.NextcloudURLer("https://project.esss.dk/nextcloud", "Diq9n3kITaEBtq7", "Sim")
//	nextfetch.WriteRegistry(hashes, "pooch-registry.txt", urler)
//
// Fetching files listed in a registry:
//
//	reg, _ := nextfetch.LoadRegistry("pooch-registry.txt")
//	f, _ := nextfetch.NewFetcher(reg,
//		nextfetch.WithStorageDir("~/data"),
//		nextfetch.WithVersion("0.1.0+alpha", "main"),
//	)
//	path, err := f.Fetch(ctx, "20240829/BIFROST_20240829T192305.h5")
//
// Files already present with the recorded hash are not downloaded again.
// Downloads whose content does not match fail with an IntegrityError and
// leave nothing behind at the destination.
package nextfetch
