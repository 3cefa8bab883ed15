// Package wireformat implements the session wire protocol: a 4-byte
// big-endian length prefix around a tagged-union message payload. Encoding
// helpers mirror the teacher's XDR writer/reader pair (big-endian
// length-prefixed strings and opaque data) without XDR's 4-byte alignment
// padding, which this protocol does not require.
package wireformat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// maxFrameLength bounds a single frame's payload to guard against a
// corrupt or hostile length prefix forcing an unbounded allocation.
const maxFrameLength = 64 * 1024 * 1024

// Tag identifies a message variant on the wire.
type Tag byte

const (
	TagHandshake Tag = iota + 1
	TagFileRequest
	TagFileData
	TagFileSignature
	TagFileDelta
	TagListRequest
	TagListResponse
	TagFileUpdateNotification
	TagStartSync
	TagError
)

func (t Tag) String() string {
	switch t {
	case TagHandshake:
		return "Handshake"
	case TagFileRequest:
		return "FileRequest"
	case TagFileData:
		return "FileData"
	case TagFileSignature:
		return "FileSignature"
	case TagFileDelta:
		return "FileDelta"
	case TagListRequest:
		return "ListRequest"
	case TagListResponse:
		return "ListResponse"
	case TagFileUpdateNotification:
		return "FileUpdateNotification"
	case TagStartSync:
		return "StartSync"
	case TagError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Message is implemented by every wire variant.
type Message interface {
	Tag() Tag
	encode(buf *bytes.Buffer)
}

// WriteFrame encodes msg and writes it as a length-prefixed frame.
func WriteFrame(w io.Writer, msg Message) error {
	var buf bytes.Buffer
	buf.WriteByte(byte(msg.Tag()))
	msg.encode(&buf)

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))

	if _, err := w.Write(lenPrefix[:]); err != nil {
		return syncerr.Wrap(syncerr.Transport, "", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return syncerr.Wrap(syncerr.Transport, "", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and decodes it into a Message.
func ReadFrame(r io.Reader) (Message, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, syncerr.Wrap(syncerr.ProtocolTruncated, "", err)
	}

	length := binary.BigEndian.Uint32(lenPrefix[:])
	if length == 0 {
		return nil, syncerr.New(syncerr.ProtocolDecode, "empty frame")
	}
	if length > maxFrameLength {
		return nil, syncerr.Newf(syncerr.ProtocolDecode, "frame length %d exceeds maximum %d", length, maxFrameLength)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, syncerr.Wrap(syncerr.ProtocolTruncated, "", err)
	}

	return Decode(payload)
}

// Decode parses a single frame payload (tag byte + fields) into a Message.
func Decode(payload []byte) (Message, error) {
	if len(payload) < 1 {
		return nil, syncerr.New(syncerr.ProtocolDecode, "frame payload too short for tag")
	}
	tag := Tag(payload[0])
	r := bytes.NewReader(payload[1:])

	switch tag {
	case TagHandshake:
		return decodeHandshake(r)
	case TagFileRequest:
		return decodeFileRequest(r)
	case TagFileData:
		return decodeFileData(r)
	case TagFileSignature:
		return decodeFileSignature(r)
	case TagFileDelta:
		return decodeFileDelta(r)
	case TagListRequest:
		return decodeListRequest(r)
	case TagListResponse:
		return decodeListResponse(r)
	case TagFileUpdateNotification:
		return decodeFileUpdateNotification(r)
	case TagStartSync:
		return decodeStartSync(r)
	case TagError:
		return decodeErrorMsg(r)
	default:
		return nil, syncerr.Newf(syncerr.ProtocolDecode, "unknown frame tag %d", tag)
	}
}

// ============================================================================
// Encoding primitives (unexported; mirrors the teacher's XDR helpers, minus
// 4-byte alignment padding, which this protocol does not use).
// ============================================================================

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint32(buf, uint32(len(b)))
	buf.Write(b)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

const maxFieldLength = 16 * 1024 * 1024

func readString(r *bytes.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	length, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if length > maxFieldLength {
		return nil, syncerr.Newf(syncerr.ProtocolDecode, "field length %d exceeds maximum %d", length, maxFieldLength)
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, syncerr.Wrap(syncerr.ProtocolDecode, "", err)
	}
	return b, nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, syncerr.Wrap(syncerr.ProtocolDecode, "", err)
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, syncerr.Wrap(syncerr.ProtocolDecode, "", err)
	}
	return binary.BigEndian.Uint64(tmp[:]), nil
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, syncerr.Wrap(syncerr.ProtocolDecode, "", err)
	}
	return b != 0, nil
}
