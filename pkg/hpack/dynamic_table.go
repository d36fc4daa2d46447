package hpack

// dynamicTable is the bounded, insertion-ordered table of headers added
// during encoding/decoding (draft-07 / RFC 7541 §4.1, §2.3.2). Entries
// are added at the front and evicted from the back once the table's
// accounted size exceeds maxSize. Implemented as a circular buffer
// rather than a deque to avoid a per-insert allocation.
type dynamicTable struct {
	entries []Header
	head    int // position of the newest entry
	count   int
	size    uint32
	maxSize uint32

	// onEvict, when set, is called for every entry removed by eviction
	// or resize-down, so the reference set can drop its own reference
	// to a header that the table no longer holds (spec §3 invariant:
	// the reference set never outlives the table entry it names).
	onEvict func(Header)
}

func newDynamicTable(maxSize uint32) *dynamicTable {
	capacity := int(maxSize / 64)
	if capacity < 16 {
		capacity = 16
	}
	return &dynamicTable{
		entries: make([]Header, capacity),
		maxSize: maxSize,
	}
}

// Add inserts a new entry at the front, evicting from the back as
// needed to respect maxSize. An entry larger than maxSize on its own
// is simply not added (table ends up empty), per spec §3.
func (dt *dynamicTable) Add(h Header) {
	sz := h.size()

	for dt.size+sz > dt.maxSize && dt.count > 0 {
		dt.evictOldest()
	}
	if sz > dt.maxSize {
		return
	}

	if dt.count == len(dt.entries) {
		dt.grow()
	}

	dt.head = (dt.head - 1 + len(dt.entries)) % len(dt.entries)
	dt.entries[dt.head] = h
	dt.count++
	dt.size += sz
}

// Get retrieves the entry at 1-based index (1 = most recently added).
func (dt *dynamicTable) Get(index int) (Header, bool) {
	if index < 1 || index > dt.count {
		return Header{}, false
	}
	pos := (dt.head + index - 1) % len(dt.entries)
	return dt.entries[pos], true
}

// Find searches for name/value, preferring an exact match; if none
// exists it returns the first (newest) name-only match. Index is
// 1-based, 0 if nothing matched at all.
func (dt *dynamicTable) Find(name, value string) (index int, exact bool) {
	for i := 0; i < dt.count; i++ {
		pos := (dt.head + i) % len(dt.entries)
		e := dt.entries[pos]

		if string(e.Name) == name {
			if string(e.Value) == value {
				return i + 1, true
			}
			if index == 0 {
				index = i + 1
			}
		}
	}
	return index, false
}

func (dt *dynamicTable) Len() int        { return dt.count }
func (dt *dynamicTable) Size() uint32    { return dt.size }
func (dt *dynamicTable) MaxSize() uint32 { return dt.maxSize }

// SetMaxSize changes the bound, evicting from the back if the current
// contents no longer fit.
func (dt *dynamicTable) SetMaxSize(maxSize uint32) {
	dt.maxSize = maxSize
	for dt.size > dt.maxSize && dt.count > 0 {
		dt.evictOldest()
	}
}

func (dt *dynamicTable) evictOldest() {
	if dt.count == 0 {
		return
	}
	tail := (dt.head + dt.count - 1) % len(dt.entries)
	e := dt.entries[tail]

	dt.size -= e.size()
	dt.count--
	dt.entries[tail] = Header{}

	if dt.onEvict != nil {
		dt.onEvict(e)
	}
}

func (dt *dynamicTable) grow() {
	next := make([]Header, len(dt.entries)*2)
	for i := 0; i < dt.count; i++ {
		pos := (dt.head + i) % len(dt.entries)
		next[i] = dt.entries[pos]
	}
	dt.entries = next
	dt.head = 0
}

// indexTable combines the static and dynamic tables behind a single
// absolute index space, per draft-07 (note: this is the opposite order
// from RFC 7541's fixed 1-61-static/62+-dynamic layout): index
// 1..|dynamic| addresses the dynamic table (1 = most recent), and index
// |dynamic|+1..|dynamic|+60 addresses the static table. Because the
// dynamic table's length changes, the static table's effective wire
// index shifts as entries are added or evicted — unlike RFC 7541, where
// static indices are fixed for the life of the connection.
type indexTable struct {
	dynamic *dynamicTable
}

func newIndexTable(maxDynamicSize uint32) *indexTable {
	return &indexTable{dynamic: newDynamicTable(maxDynamicSize)}
}

// Get resolves an absolute index to a header and reports whether the
// match came from the static table (so callers can mirror it into the
// dynamic table, mirroring the "static hit gets promoted" behavior in
// spec §4.4/§4.5).
func (it *indexTable) Get(index int) (h Header, fromStatic bool, ok bool) {
	if index <= 0 {
		return Header{}, false, false
	}

	dynCount := it.dynamic.Len()
	if index <= dynCount {
		h, ok = it.dynamic.Get(index)
		return h, false, ok
	}

	e, ok := getStatic(index - dynCount)
	if !ok {
		return Header{}, false, false
	}
	return Header{Name: []byte(e.Name), Value: []byte(e.Value)}, true, true
}

func (it *indexTable) Add(h Header) { it.dynamic.Add(h) }

// Find mirrors matching_header from the draft-07 reference: the
// dynamic table is searched first (1-based, newest first), then the
// static table, whose effective wire index is offset by the current
// dynamic table length.
func (it *indexTable) Find(name, value string) (index int, exact bool) {
	dynCount := it.dynamic.Len()

	dynIdx, dynExact := it.dynamic.Find(name, value)
	if dynExact {
		return dynIdx, true
	}

	staticIdx, staticExact := findStatic(name, value)
	if staticExact {
		return dynCount + staticIdx, true
	}

	if dynIdx > 0 {
		return dynIdx, false
	}
	if staticIdx > 0 {
		return dynCount + staticIdx, false
	}
	return 0, false
}

func (it *indexTable) SetMaxDynamicSize(maxSize uint32) { it.dynamic.SetMaxSize(maxSize) }
func (it *indexTable) DynamicTableSize() uint32         { return it.dynamic.Size() }
