package syncmanager

import "strings"

// underRoot reports whether changedPath is root itself or a descendant of
// it, and if so returns the forward-slash relative suffix (empty for an
// exact match).
func underRoot(root, changedPath string) (rel string, ok bool) {
	if changedPath == root {
		return "", true
	}
	trimmedRoot := strings.TrimRight(root, "/")
	if strings.HasPrefix(changedPath, trimmedRoot+"/") {
		return strings.TrimPrefix(changedPath, trimmedRoot+"/"), true
	}
	return "", false
}

// joinRemote appends a relative suffix to a remote root with exactly one
// slash between them, matching the wire format's relative-path convention.
func joinRemote(root, rel string) string {
	if rel == "" {
		return root
	}
	return strings.TrimRight(root, "/") + "/" + rel
}
