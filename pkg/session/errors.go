package session

import "github.com/syncr-go/syncr/pkg/syncerr"

func protocolUnexpected(format string, args ...any) error {
	return syncerr.Newf(syncerr.ProtocolUnexpected, format, args...)
}
