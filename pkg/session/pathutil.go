package session

import "strings"

// joinRemote joins a remote root with a relative, forward-slash path
// segment reported in a ListResponse. Remote paths are never touched by
// filepath.Join: the remote host may run a different OS than this one, and
// the wire format fixes "/" as the separator regardless of platform.
func joinRemote(root, rel string) string {
	if rel == "" {
		return root
	}
	root = strings.TrimRight(root, "/")
	if root == "" {
		return rel
	}
	return root + "/" + rel
}
