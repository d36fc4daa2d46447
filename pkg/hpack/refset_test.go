package hpack

import "testing"

func TestEncoderRefSetLifecycle(t *testing.T) {
	rs := newEncoderRefSet()
	h := NewHeader("a", "1")

	rs.add(h, emitted)
	if e := rs.lookup(h); e == nil || e.emitted != emitted {
		t.Fatalf("lookup after add = %+v, want emitted", e)
	}

	rs.resetEmitted()
	if e := rs.lookup(h); e == nil || e.emitted != notEmitted {
		t.Fatalf("lookup after resetEmitted = %+v, want notEmitted", e)
	}

	rs.remove(h)
	if e := rs.lookup(h); e != nil {
		t.Fatalf("lookup after remove = %+v, want nil", e)
	}
}

func TestEncoderRefSetNotEmittedSortedOrder(t *testing.T) {
	rs := newEncoderRefSet()
	rs.add(NewHeader("zeta", "1"), notEmitted)
	rs.add(NewHeader("alpha", "1"), notEmitted)
	rs.add(NewHeader("alpha", "0"), notEmitted)
	rs.add(NewHeader("beta", "1"), emitted) // should be excluded

	got := rs.notEmittedSorted()
	if len(got) != 3 {
		t.Fatalf("notEmittedSorted() len = %d, want 3", len(got))
	}
	want := []string{"alpha\x000", "alpha\x001", "zeta\x001"}
	for i, h := range got {
		if h.key() != want[i] {
			t.Fatalf("notEmittedSorted()[%d] = %s, want %s", i, h.key(), want[i])
		}
	}
}

func TestDecoderRefSetToggle(t *testing.T) {
	rs := newDecoderRefSet()
	h := NewHeader("a", "1")

	if rs.contains(h) {
		t.Fatalf("fresh refset should not contain h")
	}
	rs.add(h)
	if !rs.contains(h) {
		t.Fatalf("refset should contain h after add")
	}
	rs.remove(h)
	if rs.contains(h) {
		t.Fatalf("refset should not contain h after remove")
	}
}

func TestDecoderRefSetClear(t *testing.T) {
	rs := newDecoderRefSet()
	rs.add(NewHeader("a", "1"))
	rs.add(NewHeader("b", "2"))
	rs.clear()
	if len(rs.sortedHeaders()) != 0 {
		t.Fatalf("clear() left entries behind")
	}
}
