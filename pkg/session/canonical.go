package session

import (
	"path/filepath"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// canonicalize resolves path to an absolute, symlink-free form. Permission
// and sync registrations are always keyed on this form so that two
// spellings of the same file never diverge in the store. A path that
// cannot be resolved (missing, dangling symlink, permission error walking
// its ancestors) is never silently admitted with its raw spelling; the
// caller must treat canonicalization failure as a denial.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", syncerr.Wrap(syncerr.CanonicalizationFailure, path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", syncerr.Wrap(syncerr.CanonicalizationFailure, path, err)
	}
	return real, nil
}
