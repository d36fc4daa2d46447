package hpack

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers can compare with errors.Is against
// these, or unwrap EncodingError/DecodingError for the offending
// header or byte offset.
var (
	ErrNotIndexable    = errors.New("hpack: header not present in any table")
	ErrIndexOutOfRange = errors.New("hpack: table index out of range")
	ErrTruncated       = errors.New("hpack: input truncated")
	ErrInvalidHuffman  = errors.New("hpack: invalid Huffman-encoded string")
	ErrIntegerOverflow = errors.New("hpack: integer overflow")
	ErrStringTooLong   = errors.New("hpack: string literal exceeds maximum length")
)

// EncodingError reports a failure to produce a header block, wrapping
// one of the sentinel Err values above with the header pair that
// triggered it.
type EncodingError struct {
	Header Header
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("hpack: encoding error for %q: %s", e.Header.Name, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodingError reports a failure to parse a header block, wrapping one
// of the sentinel Err values above with the byte offset at which
// decoding failed.
type DecodingError struct {
	Offset int
	Err    error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("hpack: decoding error at offset %d: %s", e.Offset, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }
