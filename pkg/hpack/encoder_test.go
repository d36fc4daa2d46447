package hpack

import (
	"errors"
	"testing"
)

func TestEncoderLiteralNewNamePlain(t *testing.T) {
	enc := NewEncoder(4096)
	out, err := enc.Encode([]Header{NewHeader("x-custom", "value")}, false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := []byte{0x40, 0x08}
	want = append(want, []byte("x-custom")...)
	want = append(want, 0x05)
	want = append(want, []byte("value")...)

	if string(out) != string(want) {
		t.Fatalf("Encode() = % x, want % x", out, want)
	}
	if enc.table.dynamic.Len() != 1 {
		t.Fatalf("dynamic table len = %d, want 1", enc.table.dynamic.Len())
	}
}

func TestEncoderLiteralNewNameHuffman(t *testing.T) {
	enc := NewEncoder(4096)
	out, err := enc.Encode([]Header{NewHeader("x-custom", "value")}, true)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if out[0] != 0x40 {
		t.Fatalf("first byte = %#x, want 0x40", out[0])
	}
	// Name length byte's H-bit must be set.
	if out[1]&0x80 == 0 {
		t.Fatalf("name length byte %#x missing Huffman flag", out[1])
	}
}

func TestEncoderSecondExactMatchIndexes(t *testing.T) {
	enc := NewEncoder(4096)
	if _, err := enc.Encode([]Header{NewHeader("x-custom", "value")}, false); err != nil {
		t.Fatalf("first Encode() error = %v", err)
	}
	// A different header list referencing the same pair, in a later
	// block, should find it as an exact dynamic match.
	out, err := enc.Encode([]Header{NewHeader("x-custom", "value"), NewHeader("x-other", "v2")}, false)
	if err != nil {
		t.Fatalf("second Encode() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("second Encode() produced no bytes")
	}
}

func TestEncoderRemoveUnindexableErrors(t *testing.T) {
	enc := NewEncoder(4096)
	_, err := enc.emitRemove(nil, NewHeader("not-present", "nope"))
	if err == nil {
		t.Fatalf("emitRemove() of an absent header did not error")
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) || !errors.Is(encErr.Err, ErrNotIndexable) {
		t.Fatalf("emitRemove() error = %v, want ErrNotIndexable", err)
	}
}

func TestEncoderRemoveStaticOnlyMatchErrors(t *testing.T) {
	enc := NewEncoder(4096)
	// ":method"/"GET" is an exact static match but not yet promoted into
	// the dynamic table, so it cannot be removed.
	_, err := enc.emitRemove(nil, NewHeader(":method", "GET"))
	if err == nil {
		t.Fatalf("emitRemove() of a static-only match did not error")
	}
}

func TestEncoderPartialMatchNeverIndexes(t *testing.T) {
	enc := NewEncoder(4096)
	if _, err := enc.Encode([]Header{NewHeader(":authority", "example.org")}, false); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if enc.table.dynamic.Len() != 0 {
		t.Fatalf("dynamic table len = %d, want 0 (partial match never indexes)", enc.table.dynamic.Len())
	}
	if e := enc.refset.lookup(NewHeader(":authority", "example.org")); e != nil {
		t.Fatalf("reference set holds a partial match, want none")
	}
}

func TestEncoderStaticExactMatchPromotes(t *testing.T) {
	enc := NewEncoder(4096)
	out, err := enc.Encode([]Header{NewHeader(":method", "GET")}, false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(out) != 1 || out[0] != 0x82 {
		t.Fatalf("Encode() = % x, want [0x82]", out)
	}
	if enc.table.dynamic.Len() != 1 {
		t.Fatalf("dynamic table len = %d, want 1 (static hit promotes)", enc.table.dynamic.Len())
	}
}
