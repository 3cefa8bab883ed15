package logger

import (
	"encoding/hex"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that session,
// sync-manager, and store logs aggregate and query cleanly.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Session & Peer
	// ========================================================================
	KeyPeerID    = "peer_id"   // remote peer's public key, short hex form
	KeyRole      = "role"      // "responder" or "initiator"
	KeyOperation = "operation" // message tag currently being handled
	KeySessionID = "session_id"

	// ========================================================================
	// Protocol Frames
	// ========================================================================
	KeyFrameTag  = "frame_tag"  // wire message variant name
	KeyFrameSize = "frame_size" // encoded frame length in bytes

	// ========================================================================
	// Filesystem / Sync
	// ========================================================================
	KeyPath       = "path"        // absolute or wire path
	KeyLocalPath  = "local_path"  // local filesystem path
	KeyRemotePath = "remote_path" // path as understood by the remote peer
	KeySize       = "size"        // file size in bytes

	// ========================================================================
	// Delta Engine
	// ========================================================================
	KeyDeltaBytes     = "delta_bytes"     // size of a computed delta
	KeySignatureBytes = "signature_bytes" // size of a computed signature
	KeyBlockCount     = "block_count"     // number of blocks in a signature

	// ========================================================================
	// Store
	// ========================================================================
	KeyStorePath = "store_path" // on-disk path of the metadata store
	KeyNamespace = "namespace"  // watches, permissions, or syncs

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyAttempt    = "attempt"
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// PeerID returns a slog.Attr for a peer's public key, truncated to its
// first 8 bytes for readability.
func PeerID(key []byte) slog.Attr {
	n := len(key)
	if n > 8 {
		n = 8
	}
	return slog.String(KeyPeerID, hex.EncodeToString(key[:n]))
}

// PeerIDString returns a slog.Attr for an already-formatted peer identifier.
func PeerIDString(s string) slog.Attr {
	return slog.String(KeyPeerID, s)
}

// Role returns a slog.Attr for the session role (responder/initiator).
func Role(role string) slog.Attr {
	return slog.String(KeyRole, role)
}

// Operation returns a slog.Attr for the message tag being handled.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// FrameTag returns a slog.Attr for a decoded frame's variant name.
func FrameTag(tag string) slog.Attr {
	return slog.String(KeyFrameTag, tag)
}

// FrameSize returns a slog.Attr for an encoded frame's byte length.
func FrameSize(n int) slog.Attr {
	return slog.Int(KeyFrameSize, n)
}

// Path returns a slog.Attr for a filesystem path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// LocalPath returns a slog.Attr for a local filesystem path.
func LocalPath(p string) slog.Attr {
	return slog.String(KeyLocalPath, p)
}

// RemotePath returns a slog.Attr for a remote-peer path.
func RemotePath(p string) slog.Attr {
	return slog.String(KeyRemotePath, p)
}

// Size returns a slog.Attr for a byte size.
func Size(n int64) slog.Attr {
	return slog.Int64(KeySize, n)
}

// DeltaBytes returns a slog.Attr for a computed delta's size.
func DeltaBytes(n int) slog.Attr {
	return slog.Int(KeyDeltaBytes, n)
}

// SignatureBytes returns a slog.Attr for a computed signature's size.
func SignatureBytes(n int) slog.Attr {
	return slog.Int(KeySignatureBytes, n)
}

// BlockCount returns a slog.Attr for the number of blocks in a signature.
func BlockCount(n int) slog.Attr {
	return slog.Int(KeyBlockCount, n)
}

// StorePath returns a slog.Attr for the metadata store's on-disk path.
func StorePath(p string) slog.Attr {
	return slog.String(KeyStorePath, p)
}

// Namespace returns a slog.Attr for a store namespace (watches/permissions/syncs).
func Namespace(ns string) slog.Attr {
	return slog.String(KeyNamespace, ns)
}

// Err returns a slog.Attr for an error value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Attempt returns a slog.Attr for a retry attempt number.
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}
