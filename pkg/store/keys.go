package store

// Key layout mirrors the teacher's badger key-building helpers
// (pkg/store/metadata/badger: keyFile, keyShare, keyChildPrefix): a short
// namespace prefix followed by a NUL-separated path so that a single
// Badger database can host the three logical namespaces (watches,
// permissions, syncs) without collision, and so list operations can use a
// prefix iterator instead of a full scan.
const (
	nsWatch      = "w\x00"
	nsPermission = "p\x00"
	nsSync       = "s\x00"
)

func keyWatch(path string) []byte {
	return []byte(nsWatch + path)
}

func watchPrefix() []byte {
	return []byte(nsWatch)
}

func keyPermission(path, peerHex string) []byte {
	return []byte(nsPermission + path + "\x00" + peerHex)
}

func permissionPrefix(path string) []byte {
	return []byte(nsPermission + path + "\x00")
}

func keySync(localPath, entryID string) []byte {
	return []byte(nsSync + localPath + "\x00" + entryID)
}

func syncPrefixForPath(localPath string) []byte {
	return []byte(nsSync + localPath + "\x00")
}

func syncPrefix() []byte {
	return []byte(nsSync)
}
