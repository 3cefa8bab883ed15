package deltaengine

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// BlockSize is the fixed content-defined block size used to chunk a file
// for signature computation.
const BlockSize = 1024

// block is one entry of a parsed signature.
type block struct {
	index  int
	length uint32
	weak   uint32
	strong uint64
}

// Signature computes a compact per-block fingerprint of data: for every
// BlockSize-aligned chunk (the final chunk may be shorter), a 4-byte weak
// rolling checksum and an 8-byte strong hash (xxhash64). Signature is a
// pure function of data; it performs no I/O.
func Signature(data []byte) []byte {
	numBlocks := (len(data) + BlockSize - 1) / BlockSize
	out := make([]byte, 4, 4+numBlocks*16)
	binary.BigEndian.PutUint32(out, uint32(numBlocks))

	for start := 0; start < len(data); start += BlockSize {
		end := start + BlockSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[start:end]
		weak := newRollingChecksum(chunk).sum()
		strong := xxhash.Sum64(chunk)

		var entry [16]byte
		binary.BigEndian.PutUint32(entry[0:4], uint32(len(chunk)))
		binary.BigEndian.PutUint32(entry[4:8], weak)
		binary.BigEndian.PutUint64(entry[8:16], strong)
		out = append(out, entry[:]...)
	}
	return out
}

// parseSignature decodes the output of Signature back into block entries.
func parseSignature(sig []byte) ([]block, error) {
	if len(sig) < 4 {
		return nil, syncerr.New(syncerr.DeltaFailure, "signature too short")
	}
	numBlocks := binary.BigEndian.Uint32(sig[0:4])
	want := 4 + int(numBlocks)*16
	if len(sig) != want {
		return nil, syncerr.Newf(syncerr.DeltaFailure, "signature length %d does not match block count %d", len(sig), numBlocks)
	}

	blocks := make([]block, numBlocks)
	off := 4
	for i := 0; i < int(numBlocks); i++ {
		entry := sig[off : off+16]
		blocks[i] = block{
			index:  i,
			length: binary.BigEndian.Uint32(entry[0:4]),
			weak:   binary.BigEndian.Uint32(entry[4:8]),
			strong: binary.BigEndian.Uint64(entry[8:16]),
		}
		off += 16
	}
	return blocks, nil
}
