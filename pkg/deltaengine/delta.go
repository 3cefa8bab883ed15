package deltaengine

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// Delta instruction opcodes on the wire.
const (
	opCopy    byte = 1
	opLiteral byte = 2
)

// Delta computes an instruction stream that transforms the data described
// by sig into newData. Delta is deterministic for fixed inputs: it never
// touches the filesystem and allocates no state beyond the signature index
// and the output buffer.
func Delta(sig []byte, newData []byte) ([]byte, error) {
	blocks, err := parseSignature(sig)
	if err != nil {
		return nil, err
	}

	index := make(map[uint32][]block, len(blocks))
	lengths := map[uint32]struct{}{}
	for _, b := range blocks {
		index[b.weak] = append(index[b.weak], b)
		lengths[b.length] = struct{}{}
	}
	distinctLengths := make([]uint32, 0, len(lengths))
	for l := range lengths {
		distinctLengths = append(distinctLengths, l)
	}
	sort.Slice(distinctLengths, func(i, j int) bool { return distinctLengths[i] > distinctLengths[j] })

	var out []byte
	literalStart := 0
	pos := 0

	flushLiteral := func(end int) {
		if end <= literalStart {
			return
		}
		out = append(out, opLiteral)
		lit := newData[literalStart:end]
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(lit)))
		out = append(out, lenBuf[:]...)
		out = append(out, lit...)
	}

	// states holds one rolling checksum per distinct block length observed
	// in the signature, advanced by one byte per iteration so matching
	// stays O(1) per length instead of re-hashing every window from
	// scratch. states are rebuilt whenever pos jumps (on a match) since a
	// jump invalidates the incremental roll.
	states := make(map[uint32]*rollingChecksum, len(distinctLengths))

	rebuild := func(at int) {
		for _, length := range distinctLengths {
			if length == 0 || at+int(length) > len(newData) {
				delete(states, length)
				continue
			}
			rc := newRollingChecksum(newData[at : at+int(length)])
			states[length] = &rc
		}
	}
	rebuild(pos)

	for pos < len(newData) {
		matched := false
		for _, length := range distinctLengths {
			rc, ok := states[length]
			if !ok {
				continue
			}
			candidates, ok := index[rc.sum()]
			if !ok {
				continue
			}
			window := newData[pos : pos+int(length)]
			strong := xxhash.Sum64(window)
			for _, cand := range candidates {
				if cand.length != length || cand.strong != strong {
					continue
				}
				flushLiteral(pos)
				out = append(out, opCopy)
				var idxBuf [4]byte
				binary.BigEndian.PutUint32(idxBuf[:], uint32(cand.index))
				out = append(out, idxBuf[:]...)
				pos += int(length)
				literalStart = pos
				matched = true
				break
			}
			if matched {
				break
			}
		}

		if matched {
			rebuild(pos)
			continue
		}

		// No length matched at pos: advance by one byte, rolling each
		// active window forward instead of recomputing it.
		next := pos + 1
		for _, length := range distinctLengths {
			rc, ok := states[length]
			if !ok {
				continue
			}
			if next+int(length) > len(newData) {
				delete(states, length)
				continue
			}
			rc.roll(newData[pos], newData[pos+int(length)])
		}
		pos = next
	}
	flushLiteral(len(newData))

	return out, nil
}

// Apply reconstructs new data from old data and a delta produced by Delta
// against Signature(old). Apply writes into a freshly allocated buffer so a
// failure never touches the caller's existing copy of old.
func Apply(old []byte, delta []byte) ([]byte, error) {
	out := make([]byte, 0, len(old))
	pos := 0

	for pos < len(delta) {
		if pos+1 > len(delta) {
			return nil, syncerr.New(syncerr.DeltaFailure, "truncated delta: missing opcode")
		}
		op := delta[pos]
		pos++

		switch op {
		case opCopy:
			if pos+4 > len(delta) {
				return nil, syncerr.New(syncerr.DeltaFailure, "truncated delta: missing copy index")
			}
			blockIndex := int(binary.BigEndian.Uint32(delta[pos : pos+4]))
			pos += 4
			start := blockIndex * BlockSize
			if start < 0 || start > len(old) {
				return nil, syncerr.Newf(syncerr.DeltaFailure, "copy instruction references block %d beyond old data", blockIndex)
			}
			end := start + BlockSize
			if end > len(old) {
				end = len(old)
			}
			out = append(out, old[start:end]...)

		case opLiteral:
			if pos+4 > len(delta) {
				return nil, syncerr.New(syncerr.DeltaFailure, "truncated delta: missing literal length")
			}
			litLen := int(binary.BigEndian.Uint32(delta[pos : pos+4]))
			pos += 4
			if litLen < 0 || pos+litLen > len(delta) {
				return nil, syncerr.New(syncerr.DeltaFailure, "truncated delta: literal data shorter than declared length")
			}
			out = append(out, delta[pos:pos+litLen]...)
			pos += litLen

		default:
			return nil, syncerr.Newf(syncerr.DeltaFailure, "unknown delta opcode %d", op)
		}
	}

	return out, nil
}
