package hpack

import (
	"bytes"
	"sort"
)

// emittedState tracks, for one encoder reference, whether it has
// already been written to the current header block (spec §3).
type emittedState int

const (
	notEmitted emittedState = iota
	implicitlyEmitted
	emitted
)

// encoderRefSet is the encoder-side reference set: the set of header
// pairs the encoder believes the peer currently holds. Unlike the
// decoder's set, each member carries an ephemeral emitted tag that is
// reset at the start of every Encode call (spec §3, §4.4).
type encoderRefSet struct {
	members map[string]*refEntry
}

type refEntry struct {
	header  Header
	emitted emittedState
}

func newEncoderRefSet() *encoderRefSet {
	return &encoderRefSet{members: make(map[string]*refEntry)}
}

// resetEmitted clears every member's emitted tag back to notEmitted;
// called once at the top of every Encode call.
func (rs *encoderRefSet) resetEmitted() {
	for _, e := range rs.members {
		e.emitted = notEmitted
	}
}

// lookup returns the reference entry for h, or nil if h is not a
// member (get_from_reference_set in the reference implementation).
func (rs *encoderRefSet) lookup(h Header) *refEntry {
	return rs.members[h.key()]
}

func (rs *encoderRefSet) add(h Header, state emittedState) {
	rs.members[h.key()] = &refEntry{header: h, emitted: state}
}

func (rs *encoderRefSet) remove(h Header) {
	delete(rs.members, h.key())
}

// notEmittedSorted returns, in deterministic name-then-value byte
// order, every member whose emitted tag is still notEmitted after a
// full Encode pass — these are the entries the encoder must explicitly
// remove so the peer's implicit reference set stays in sync (spec §4.4
// step 4, §9 determinism note).
func (rs *encoderRefSet) notEmittedSorted() []Header {
	var out []Header
	for _, e := range rs.members {
		if e.emitted == notEmitted {
			out = append(out, e.header)
		}
	}
	sortHeaders(out)
	return out
}

// onTableEvict removes the reference set's own pointer to an evicted
// dynamic-table entry, since a reference can't outlive the table row
// it names (spec §3 invariant).
func (rs *encoderRefSet) onTableEvict(h Header) { rs.remove(h) }

// decoderRefSet is the decoder-side reference set: plain membership,
// no emitted tags (the decoder only needs to know "is this already
// part of the output for this block", toggled per spec §4.5).
type decoderRefSet struct {
	members map[string]Header
}

func newDecoderRefSet() *decoderRefSet {
	return &decoderRefSet{members: make(map[string]Header)}
}

func (rs *decoderRefSet) contains(h Header) bool {
	_, ok := rs.members[h.key()]
	return ok
}

func (rs *decoderRefSet) add(h Header)    { rs.members[h.key()] = h }
func (rs *decoderRefSet) remove(h Header) { delete(rs.members, h.key()) }
func (rs *decoderRefSet) clear()          { rs.members = make(map[string]Header) }
func (rs *decoderRefSet) onTableEvict(h Header) { rs.remove(h) }

// sortedHeaders returns every member in deterministic name-then-value
// byte order, for the end-of-block flush (spec §4.5 step 3, §9).
func (rs *decoderRefSet) sortedHeaders() []Header {
	out := make([]Header, 0, len(rs.members))
	for _, h := range rs.members {
		out = append(out, h)
	}
	sortHeaders(out)
	return out
}

func sortHeaders(hs []Header) {
	sort.Slice(hs, func(i, j int) bool {
		if c := bytes.Compare(hs[i].Name, hs[j].Name); c != 0 {
			return c < 0
		}
		return bytes.Compare(hs[i].Value, hs[j].Value) < 0
	})
}
