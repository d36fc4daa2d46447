package hpack

import "go.uber.org/zap"

// Wire representation flags (draft-07 / spec §4.3). Unlike RFC 7541,
// draft-07 has no "never indexed" representation. The encoder emits
// only two literal forms: a brand new name with incremental indexing
// (6-bit-zero prefix byte 0x40), or an indexed name without touching
// the table (4-bit prefix). The decoder also accepts the 01 form with
// an indexed name and the 0000 form with a literal name.
const (
	flagIndexed     = 0x80 // 1xxxxxxx
	flagLiteralNew  = 0x40 // 01000000, name index always 0
	flagContextUpd  = 0x20 // 001xxxxx
	emptyRefSetByte = 0x30 // exact byte: empties the reference set
)

// Encoder produces draft-07 HPACK header blocks. It is not safe for
// concurrent use by multiple goroutines (spec §5: single-threaded, no
// internal synchronization).
type Encoder struct {
	table  *indexTable
	refset *encoderRefSet
	logger *zap.Logger
}

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*Encoder)

// WithEncoderLogger attaches a zap logger for debug-level tracing of
// table mutations, mirroring the reference implementation's own
// log.debug call sites. A nil logger is ignored.
func WithEncoderLogger(l *zap.Logger) EncoderOption {
	return func(e *Encoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEncoder creates an Encoder whose dynamic table is bounded to
// maxDynamicTableSize octets (spec §3, initial value 4096 per draft-07).
func NewEncoder(maxDynamicTableSize uint32, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		table:  newIndexTable(maxDynamicTableSize),
		refset: newEncoderRefSet(),
		logger: nopLogger,
	}
	e.table.dynamic.onEvict = func(h Header) {
		logEvict(e.logger, h)
		e.refset.onTableEvict(h)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetMaxDynamicTableSize changes the dynamic table's size bound,
// evicting entries from the back if necessary. Per spec §9 design
// note, this never synthesizes an on-the-wire context update: the peer
// must be told out of band (outside this core's scope).
func (e *Encoder) SetMaxDynamicTableSize(size uint32) { e.table.SetMaxDynamicSize(size) }

// MaxDynamicTableSize returns the current size bound.
func (e *Encoder) MaxDynamicTableSize() uint32 { return e.table.dynamic.MaxSize() }

// Encode compresses headers into one HPACK header block (spec §4.4).
// If huffman is true, every literal name and value is Huffman-coded
// unconditionally (draft-07 applies it per the caller's flag, not by
// picking whichever form is shorter).
func (e *Encoder) Encode(headers []Header, huffman bool) ([]byte, error) {
	e.refset.resetEmitted()

	buf := getBuf()
	defer putBuf(buf)
	dst := buf.B[:0]

	for _, h := range headers {
		_, exact := e.table.Find(string(h.Name), string(h.Value))

		var ref *refEntry
		if exact {
			ref = e.refset.lookup(h)
		}

		if ref != nil && ref.emitted == notEmitted {
			ref.emitted = implicitlyEmitted
			continue
		}

		if ref != nil {
			// This header already has an active reference from earlier
			// in this same block — a duplicate. Force the peer to emit
			// it again via the remove/re-add dance (spec §4.4 step 1).
			if ref.emitted == implicitlyEmitted {
				var err error
				dst, err = e.emitRemove(dst, h)
				if err != nil {
					return nil, err
				}
				// hyper's reinstating add() call is unconditional
				// huffman=False here, independent of the caller's
				// Encode(huffman) flag.
				dst, err = e.emitAdd(dst, h, false)
				if err != nil {
					return nil, err
				}
				ref = e.refset.lookup(h)
			}

			var err error
			dst, err = e.emitRemove(dst, h)
			if err != nil {
				return nil, err
			}
			ref = nil
		}

		if ref == nil {
			var err error
			dst, err = e.emitAdd(dst, h, huffman)
			if err != nil {
				return nil, err
			}
		}
	}

	// Explicitly remove everything left un-emitted, in deterministic
	// byte order, so the peer's implicit reference set stays in sync
	// (spec §4.4 step 4, §9 determinism note).
	for _, h := range e.refset.notEmittedSorted() {
		var err error
		dst, err = e.emitRemove(dst, h)
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, len(dst))
	copy(out, dst)
	buf.B = dst
	return out, nil
}

// emitAdd encodes h for the first time in this block (or promotes an
// existing static/name-only match), mirroring the reference
// implementation's add().
func (e *Encoder) emitAdd(dst []byte, h Header, huffman bool) ([]byte, error) {
	idx, exact := e.table.Find(string(h.Name), string(h.Value))

	if idx == 0 {
		dst = append(dst, flagLiteralNew)
		dst = appendString(dst, h.Name, huffman)
		dst = appendString(dst, h.Value, huffman)
		logAdd(e.logger, h)
		e.table.Add(h)
		e.refset.add(h, emitted)
		return dst, nil
	}

	if exact {
		dst = appendInteger(dst, idx, 7, flagIndexed)

		if idx > e.table.dynamic.Len() {
			// Matched the static table: promote into the dynamic table
			// so future references to it are stable (spec §4.4 step 2).
			logAdd(e.logger, h)
			e.table.Add(h)
		}
		e.refset.add(h, emitted)
		return dst, nil
	}

	// Partial (name-only) match: literal without indexing, indexed
	// name. Never touches the table or the reference set.
	dst = appendInteger(dst, idx, 4, 0x00)
	dst = appendString(dst, h.Value, huffman)
	return dst, nil
}

// emitRemove encodes the indexed representation for h and drops it
// from the reference set, mirroring the reference implementation's
// remove(). h must currently resolve to a dynamic-table index; a match
// that only exists in the static table cannot be "removed" on the wire.
func (e *Encoder) emitRemove(dst []byte, h Header) ([]byte, error) {
	idx, exact := e.table.Find(string(h.Name), string(h.Value))
	if !exact || idx > e.table.dynamic.Len() {
		return dst, &EncodingError{Header: h, Err: ErrNotIndexable}
	}

	logRefRemove(e.logger, h)
	dst = appendInteger(dst, idx, 7, flagIndexed)
	e.refset.remove(h)
	return dst, nil
}

// appendString encodes one length-prefixed string (spec §4.3), coding
// it with Huffman when huffman is true regardless of whether doing so
// shrinks the string (see DESIGN.md: matches the reference
// implementation, which applies Huffman unconditionally per caller
// request rather than picking whichever form is shorter).
func appendString(dst []byte, s []byte, huffman bool) []byte {
	if huffman {
		enc := huffmanEncode(nil, s)
		dst = appendInteger(dst, len(enc), 7, flagIndexed)
		return append(dst, enc...)
	}
	dst = appendInteger(dst, len(s), 7, 0x00)
	return append(dst, s...)
}
