// Storage form for oversized documents.
//
// The host stores column values out-of-line or compressed once they
// outgrow its inline threshold; this adapter is deliberately agnostic
// to that placement — only byte identity matters. The storage form is a
// one-byte tag followed by the encoded document, Zstd-framed when
// compression is worthwhile. Internalize accepts either form, so a
// value survives any combination of inline, compressed and external
// storage the host chooses.
package bcol

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Storage form tags.
const (
	storageRaw  = 0x00
	storageZstd = 0x01
)

// CompressThreshold is the encoded size below which Externalize never
// compresses; mirrors the host's inline tuple threshold.
const CompressThreshold = 2000

// Shared encoder/decoder — both are documented as safe for concurrent
// use with EncodeAll/DecodeAll. Allocated once because zstd
// encoder/decoder construction is expensive relative to the documents
// being compressed.
//
// SpeedFastest is deliberate: the adapter sits on the write path of
// every oversized document, while ratio only matters past the point
// where the host externalizes anyway.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Externalize renders the document as an opaque byte sequence for the
// host's large-object storage. Documents at or above CompressThreshold
// are compressed when that actually shrinks them; incompressible
// payloads stay raw.
func Externalize(d *Document) ([]byte, error) {
	enc, err := d.Encode()
	if err != nil {
		return nil, err
	}
	if len(enc) >= CompressThreshold {
		compressed := zstdEncoder.EncodeAll(enc, make([]byte, 1, len(enc)/2))
		if len(compressed) < len(enc)+1 {
			compressed[0] = storageZstd
			return compressed, nil
		}
	}
	out := make([]byte, len(enc)+1)
	out[0] = storageRaw
	copy(out[1:], enc)
	return out, nil
}

// Internalize reconstructs a document from its storage form. Storage
// layer failures surface unchanged; the only failure modes added here
// are an unrecognized tag and a corrupt compression frame.
func Internalize(b []byte) (*Document, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("%w: empty buffer", ErrStorageForm)
	}
	switch b[0] {
	case storageRaw:
		return Decode(b[1:])
	case storageZstd:
		enc, err := zstdDecoder.DecodeAll(b[1:], nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrDecompress, err)
		}
		return Decode(enc)
	}
	return nil, fmt.Errorf("%w: tag 0x%02X", ErrStorageForm, b[0])
}
