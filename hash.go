// Content hashing for hash index support.
//
// The host's hash operator class needs a stable 64-bit digest of a
// stored document. Hashing covers the encoded bytes, so two documents
// hash equal exactly when they are byte-identical — consistent with the
// binary equality operator, not the logical comparator. Three
// algorithms are supported, selectable per call.
package bcol

import (
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// HashBytes digests an encoded document with the given algorithm.
// Unknown algorithms return 0.
func HashBytes(data []byte, alg int) uint64 {
	switch alg {
	case AlgXXHash3:
		return xxh3.Hash(data)
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return h.Sum64()
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(data)
		var out [8]byte
		copy(out[:], h.Sum(nil))
		return uint64(out[0])<<56 | uint64(out[1])<<48 | uint64(out[2])<<40 |
			uint64(out[3])<<32 | uint64(out[4])<<24 | uint64(out[5])<<16 |
			uint64(out[6])<<8 | uint64(out[7])
	}
	return 0
}

// HashDocument encodes the document and digests the result.
func HashDocument(d *Document, alg int) (uint64, error) {
	enc, err := d.Encode()
	if err != nil {
		return 0, err
	}
	return HashBytes(enc, alg), nil
}
