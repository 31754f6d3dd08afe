package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// ULID generation for job IDs: 26-character Crockford Base32 strings
// with a millisecond timestamp prefix, so IDs sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewJobID returns a fresh ULID. IDs generated within the same
// millisecond carry an increasing sequence so they never collide.
func NewJobID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// 48-bit big-endian timestamp in the first 6 bytes.
	for i := 0; i < 6; i++ {
		b[i] = byte(ts >> (40 - 8*i))
	}
	rand.Read(b[6:])
	// Sequence in bytes 6-7 guarantees same-ms uniqueness.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 packs 128 bits into 26 Crockford Base32 characters,
// consuming 5 bits per output character from the top.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	// Treat the 16 bytes as a 130-bit field (top 2 bits always zero).
	bitAt := func(pos int) byte {
		if pos < 0 {
			return 0
		}
		return (b[pos/8] >> (7 - pos%8)) & 1
	}
	for i := 0; i < 26; i++ {
		var v byte
		for j := 0; j < 5; j++ {
			v = v<<1 | bitAt(i*5+j-2)
		}
		out[i] = crockford[v]
	}
	return string(out[:])
}
