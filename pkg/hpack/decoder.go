package hpack

import "go.uber.org/zap"

const defaultMaxStringLength = 16 * 1024 * 1024

// Decoder expands draft-07 HPACK header blocks back into headers. Like
// Encoder, it is not safe for concurrent use (spec §5).
type Decoder struct {
	table           *indexTable
	refset          *decoderRefSet
	maxStringLength int
	logger          *zap.Logger
}

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*Decoder)

// WithDecoderLogger attaches a zap logger, mirroring WithEncoderLogger.
func WithDecoderLogger(l *zap.Logger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMaxStringLength bounds the length of any single decoded string,
// guarding against a peer claiming an absurd literal length (spec §9:
// the reference decoder has no such bound, but an unbounded allocation
// from untrusted input is the kind of thing a Go implementation should
// not reproduce).
func WithMaxStringLength(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxStringLength = n
		}
	}
}

// NewDecoder creates a Decoder whose dynamic table is bounded to
// maxDynamicTableSize octets.
func NewDecoder(maxDynamicTableSize uint32, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		table:           newIndexTable(maxDynamicTableSize),
		refset:          newDecoderRefSet(),
		maxStringLength: defaultMaxStringLength,
		logger:          nopLogger,
	}
	d.table.dynamic.onEvict = func(h Header) {
		logEvict(d.logger, h)
		d.refset.onTableEvict(h)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxDynamicTableSize returns the current dynamic table size bound.
func (d *Decoder) MaxDynamicTableSize() uint32 { return d.table.dynamic.MaxSize() }

// Decode expands one complete HPACK header block (spec §4.5). The
// returned order matches the order headers were newly emitted or
// toggled on, followed by any still-referenced headers that were
// implicitly carried over, in deterministic byte order (spec §9).
func (d *Decoder) Decode(block []byte) ([]TextHeader, error) {
	var headers []Header

	offset := 0
	for offset < len(block) {
		b := block[offset]
		rest := block[offset:]

		switch {
		case b&flagIndexed != 0:
			h, consumed, err := d.decodeIndexed(rest)
			if err != nil {
				return nil, &DecodingError{Offset: offset, Err: err}
			}
			offset += consumed
			if h != nil {
				headers = append(headers, *h)
			}

		case b&flagLiteralNew != 0:
			h, consumed, err := d.decodeLiteral(rest, true)
			if err != nil {
				return nil, &DecodingError{Offset: offset, Err: err}
			}
			offset += consumed
			headers = append(headers, h)

		case b&flagContextUpd != 0:
			// Sliced at the current cursor, unlike the reference
			// implementation's _update_encoding_context(data), which is
			// called with the whole original buffer — a latent bug that
			// only works when the update is the first byte of the block
			// (see DESIGN.md).
			consumed, err := d.decodeContextUpdate(rest)
			if err != nil {
				return nil, &DecodingError{Offset: offset, Err: err}
			}
			offset += consumed

		default:
			h, consumed, err := d.decodeLiteral(rest, false)
			if err != nil {
				return nil, &DecodingError{Offset: offset, Err: err}
			}
			offset += consumed
			headers = append(headers, h)
		}
	}

	for _, h := range d.refset.sortedHeaders() {
		if !containsHeader(headers, h) {
			headers = append(headers, h)
		}
	}

	out := make([]TextHeader, len(headers))
	for i, h := range headers {
		out[i] = TextHeader{Name: string(h.Name), Value: string(h.Value)}
	}
	return out, nil
}

func containsHeader(hs []Header, h Header) bool {
	for _, x := range hs {
		if x.equal(h) {
			return true
		}
	}
	return false
}

// decodeIndexed handles the 1xxxxxxx representation (spec §4.3). A
// reference already in the reference set is toggled off (removed, no
// header emitted this step); otherwise it is toggled on and returned.
func (d *Decoder) decodeIndexed(buf []byte) (*Header, int, error) {
	index, consumed, err := decodeInteger(buf, 7)
	if err != nil {
		return nil, 0, err
	}
	if index == 0 {
		return nil, 0, ErrIndexOutOfRange
	}

	h, fromStatic, ok := d.table.Get(index)
	if !ok {
		return nil, 0, ErrIndexOutOfRange
	}

	if fromStatic {
		logAdd(d.logger, h)
		d.table.Add(h)
	}

	if d.refset.contains(h) {
		d.refset.remove(h)
		return nil, consumed, nil
	}
	d.refset.add(h)
	return &h, consumed, nil
}

// decodeLiteral handles both literal representations: shouldIndex
// selects between the 01 (incremental indexing, 6-bit name index) and
// 0000 (not indexed, 4-bit name index) prefixes (spec §4.3); in either
// form a zero name index means a literal name follows. Fixes a bug present in the
// reference implementation's _decode_literal, which re-inspects
// data[0] for the Huffman flag after already slicing past it — the
// flag bit is captured here before the cursor advances.
func (d *Decoder) decodeLiteral(buf []byte, shouldIndex bool) (Header, int, error) {
	if len(buf) == 0 {
		return Header{}, 0, ErrTruncated
	}

	var nameIndexWidth uint
	var hasIndexedName bool
	if shouldIndex {
		nameIndexWidth = 6
		hasIndexedName = buf[0]&0x3f != 0
	} else {
		nameIndexWidth = 4
		hasIndexedName = buf[0]&0x0f != 0
	}

	var name []byte
	var consumed int

	if hasIndexedName {
		index, n, err := decodeInteger(buf, nameIndexWidth)
		if err != nil {
			return Header{}, 0, err
		}
		h, _, ok := d.table.Get(index)
		if !ok {
			return Header{}, 0, ErrIndexOutOfRange
		}
		name = h.Name
		consumed = n
	} else {
		literalName, n, err := d.decodeString(buf[1:])
		if err != nil {
			return Header{}, 0, err
		}
		name = literalName
		consumed = 1 + n
	}

	value, vn, err := d.decodeString(buf[consumed:])
	if err != nil {
		return Header{}, 0, err
	}
	consumed += vn

	h := Header{Name: name, Value: value}
	if shouldIndex {
		logAdd(d.logger, h)
		d.table.Add(h)
		d.refset.add(h)
	}
	return h, consumed, nil
}

// decodeString reads one length-prefixed string, Huffman-decoding it
// when the H-bit is set (spec §4.3).
func (d *Decoder) decodeString(buf []byte) ([]byte, int, error) {
	if len(buf) == 0 {
		return nil, 0, ErrTruncated
	}
	huffman := buf[0]&0x80 != 0

	length, n, err := decodeInteger(buf, 7)
	if err != nil {
		return nil, 0, err
	}
	if length > d.maxStringLength {
		return nil, 0, ErrStringTooLong
	}
	if n+length > len(buf) {
		return nil, 0, ErrTruncated
	}
	raw := buf[n : n+length]

	if huffman {
		decoded, err := huffmanDecode(nil, raw)
		if err != nil {
			return nil, 0, err
		}
		return decoded, n + length, nil
	}

	out := make([]byte, length)
	copy(out, raw)
	return out, n + length, nil
}

// decodeContextUpdate handles the 001xxxxx representation: either the
// exact byte 0x30 (empty the reference set) or a 4-bit-prefixed
// dynamic table size update (spec §4.3, DESIGN.md decision on prefix
// width).
func (d *Decoder) decodeContextUpdate(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrTruncated
	}
	if buf[0] == emptyRefSetByte {
		logContextUpdate(d.logger, true, 0)
		d.refset.clear()
		return 1, nil
	}

	size, consumed, err := decodeInteger(buf, 4)
	if err != nil {
		return 0, err
	}
	logContextUpdate(d.logger, false, uint32(size))
	d.table.SetMaxDynamicSize(uint32(size))
	return consumed, nil
}
