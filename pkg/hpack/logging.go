package hpack

import "go.uber.org/zap"

// nopLogger is the default logger: an Encoder or Decoder built by
// NewEncoder/NewDecoder without WithEncoderLogger/WithDecoderLogger
// logs nothing and never nil-dereferences.
var nopLogger = zap.NewNop()

// logAdd records a dynamic-table insertion at debug level, mirroring
// the reference implementation's "Adding %s to the header table" trace.
func logAdd(l *zap.Logger, h Header) {
	l.Debug("hpack: add to dynamic table",
		zap.ByteString("name", h.Name),
		zap.ByteString("value", h.Value),
	)
}

// logEvict mirrors the reference implementation's eviction trace.
func logEvict(l *zap.Logger, h Header) {
	l.Debug("hpack: evict from dynamic table",
		zap.ByteString("name", h.Name),
		zap.ByteString("value", h.Value),
	)
}

// logRefRemove mirrors "Removing %s:%s from the reference set".
func logRefRemove(l *zap.Logger, h Header) {
	l.Debug("hpack: remove from reference set",
		zap.ByteString("name", h.Name),
		zap.ByteString("value", h.Value),
	)
}

// logContextUpdate traces a dynamic-table-size-update or
// empty-reference-set context update (spec §4.3).
func logContextUpdate(l *zap.Logger, emptyRefSet bool, newSize uint32) {
	if emptyRefSet {
		l.Debug("hpack: context update: empty reference set")
		return
	}
	l.Debug("hpack: context update: resize dynamic table", zap.Uint32("new_size", newSize))
}
