// Package bcol implements a BSON document value engine for a relational
// column type. A document is stored as a self-describing binary blob,
// queryable by dotted path, comparable under a total order suitable for
// index operator classes, and convertible to and from the host's JSON
// text and JSONB tree representations.
//
// The package is a pure value transformer: it never owns storage,
// transactions, or I/O. Every operation is a deterministic function of
// its inputs with no shared mutable state, so concurrent use requires no
// locking. Documents are immutable once built — updates produce a new
// document by copy-with-replacement of the target path's ancestors.
package bcol

import "errors"

// Version of the wire-compatible column type this engine implements.
const Version = "2.1"

// Sentinel errors for programmatic handling. Callers use errors.Is to
// distinguish rejected input (ErrMalformedDocument and friends, always
// fatal to the triggering operation) from encode-side misuse
// (ErrInvalidFieldName). Absent paths and type mismatches are not
// errors at all; the getters in get.go report them as ok=false.
var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrInvalidFieldName  = errors.New("invalid field name")
	ErrTooLarge          = errors.New("document exceeds maximum size")
	ErrTooDeep           = errors.New("document exceeds maximum depth")
	ErrDecimalRange      = errors.New("value out of decimal128 range")
	ErrInvalidJSON       = errors.New("invalid json text")
	ErrDecompress        = errors.New("decompression failed")
	ErrStorageForm       = errors.New("unrecognized storage form")
)
