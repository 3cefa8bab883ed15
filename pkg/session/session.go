// Package session implements the per-stream protocol state machine
// described by the session protocol component: a responder side that
// services accepted connections and an initiator side that drives outbound
// pulls, notifications, and sync registration requests.
package session

import (
	"io"

	"github.com/syncr-go/syncr/pkg/wireformat"
)

// Conn is the minimal stream abstraction the session package needs: a
// bi-directional byte stream whose frames have already been authenticated
// by the transport layer. *transport.Stream satisfies this.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
}

// ProtocolVersion is the only handshake version this implementation speaks.
const ProtocolVersion = 1

func writeHandshake(conn Conn) error {
	return wireformat.WriteFrame(conn, &wireformat.Handshake{Version: ProtocolVersion})
}

func readHandshake(conn Conn) error {
	msg, err := wireformat.ReadFrame(conn)
	if err != nil {
		return err
	}
	hs, ok := msg.(*wireformat.Handshake)
	if !ok {
		return protocolUnexpected("expected Handshake, got %s", msg.Tag())
	}
	if hs.Version != ProtocolVersion {
		return protocolUnexpected("unsupported handshake version %d", hs.Version)
	}
	return nil
}
