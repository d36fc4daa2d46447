package hpack

import "testing"

func TestAppendInteger(t *testing.T) {
	cases := []struct {
		name       string
		value      int
		prefixBits uint
		flagBits   byte
		want       []byte
	}{
		{"fits in prefix", 10, 5, 0x00, []byte{10}},
		{"RFC7541 example 10 with 5-bit prefix", 10, 5, 0x00, []byte{0x0a}},
		{"RFC7541 example 1337 with 5-bit prefix", 1337, 5, 0x00, []byte{0x1f, 0x9a, 0x0a}},
		{"RFC7541 example 42 with 8-bit prefix", 42, 8, 0x00, []byte{0x2a}},
		{"exactly at max boundary", 7, 3, 0x00, []byte{0x07, 0x00}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := appendInteger(nil, c.value, c.prefixBits, c.flagBits)
			if string(got) != string(c.want) {
				t.Fatalf("appendInteger(%d, %d) = %#v, want %#v", c.value, c.prefixBits, got, c.want)
			}
		})
	}
}

func TestDecodeInteger(t *testing.T) {
	cases := []struct {
		name         string
		buf          []byte
		prefixBits   uint
		wantValue    int
		wantConsumed int
	}{
		{"small value", []byte{10}, 5, 10, 1},
		{"RFC7541 1337 example", []byte{0x1f, 0x9a, 0x0a}, 5, 1337, 3},
		{"8-bit prefix", []byte{0x2a}, 8, 42, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, n, err := decodeInteger(c.buf, c.prefixBits)
			if err != nil {
				t.Fatalf("decodeInteger() error = %v", err)
			}
			if v != c.wantValue || n != c.wantConsumed {
				t.Fatalf("decodeInteger() = (%d, %d), want (%d, %d)", v, n, c.wantValue, c.wantConsumed)
			}
		})
	}
}

func TestDecodeIntegerTruncated(t *testing.T) {
	_, _, err := decodeInteger(nil, 5)
	if err != ErrTruncated {
		t.Fatalf("expected ErrTruncated on empty input, got %v", err)
	}

	_, _, err = decodeInteger([]byte{0x1f}, 5)
	if err != ErrTruncated {
		t.Fatalf("expected ErrTruncated on cut-off continuation, got %v", err)
	}
}

func TestDecodeIntegerOverflow(t *testing.T) {
	// Continuation bytes that never terminate, forcing m past 28.
	buf := []byte{0x1f, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}
	_, _, err := decodeInteger(buf, 5)
	if err != ErrIntegerOverflow {
		t.Fatalf("expected ErrIntegerOverflow, got %v", err)
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 30, 31, 32, 127, 128, 1337, 1000000} {
		for _, prefix := range []uint{4, 5, 6, 7, 8} {
			enc := appendInteger(nil, v, prefix, 0)
			got, consumed, err := decodeInteger(enc, prefix)
			if err != nil {
				t.Fatalf("value=%d prefix=%d: decode error %v", v, prefix, err)
			}
			if got != v || consumed != len(enc) {
				t.Fatalf("value=%d prefix=%d: round trip = (%d, %d), want (%d, %d)", v, prefix, got, consumed, v, len(enc))
			}
		}
	}
}
