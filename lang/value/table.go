package value

// maxLoad is the table's maximum load factor (⅞): a resize is triggered
// before an insertion would push the table's (count+1)/capacity ratio past
// it.
const maxLoad = 7.0 / 8.0

const initialCapacity = 8

// entry is one slot of a Table. A tombstone is {key: nil, value: True}; it
// counts toward load but is reclaimable by a later insertion.
type entry struct {
	key   *String
	value Value
}

func (e entry) isEmpty() bool     { return e.key == nil && e.value == nil }
func (e entry) isTombstone() bool { return e.key == nil && e.value != nil }

// Table is an open-addressed hash table with linear probing and tombstone
// deletion, used for the global environment, object fields and method
// tables, and (by the heap) the string intern set.
type Table struct {
	count   int // live entries + tombstones
	entries []entry
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{} }

// Count returns the number of occupied slots, live entries plus tombstones:
// the figure the load factor is measured against. It is O(1); callers that
// need the live count alone can use Len, which walks the table.
func (t *Table) Count() int { return t.count }

// Len returns the number of live entries, walking the table.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.entries {
		if !e.isEmpty() && !e.isTombstone() {
			n++
		}
	}
	return n
}

// Get returns the value associated with k, or !found if absent.
func (t *Table) Get(k *String) (Value, bool) {
	if len(t.entries) == 0 {
		return nil, false
	}
	e := t.findEntry(t.entries, k)
	if e.key == nil {
		return nil, false
	}
	return e.value, true
}

// Set inserts or overwrites the value for k, growing the table first if
// needed. It reports whether k was a new key (as opposed to an overwrite).
func (t *Table) Set(k *String, v Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.grow()
	}

	idx := t.findEntryIndex(t.entries, k)
	e := &t.entries[idx]
	isNew := e.key == nil
	if isNew && !e.isTombstone() {
		t.count++
	}
	e.key = k
	e.value = v
	return isNew
}

// SetIfExists replaces the value for an existing key k and reports whether
// k was present. It never creates a new entry (SET_GLOBAL's contract: no
// auto-creation).
func (t *Table) SetIfExists(k *String, v Value) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.findEntry(t.entries, k)
	if e.key == nil {
		return false
	}
	idx := t.findEntryIndex(t.entries, k)
	t.entries[idx].value = v
	return true
}

// Delete replaces k's slot with a tombstone. Deleting an absent key is a
// no-op and reports false.
func (t *Table) Delete(k *String) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := t.findEntryIndex(t.entries, k)
	e := &t.entries[idx]
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = True // tombstone marker
	return true
}

// FindString is the only table operation that compares by content rather
// than identity; it is used exclusively by the heap's intern set to decide
// whether a freshly scanned/concatenated string already has a canonical
// representative.
func (t *Table) FindString(s string, hash uint32) *String {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		switch {
		case e.key == nil && e.value == nil:
			return nil // empty slot, not found, and not a tombstone: stop
		case e.key != nil && e.key.Hash == hash && e.key.Chars == s:
			return e.key
		}
		idx = (idx + 1) & mask
	}
}

// RemoveWhite deletes every live entry whose key fails isMarked. The heap's
// GC calls this on the intern set before sweeping the heap list (§4.5 step
// 3): a dead string's entry must be gone before its memory is freed, or a
// freshly allocated string with identical content could collide with the
// dangling key.
func (t *Table) RemoveWhite(isMarked func(*String) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil && !isMarked(e.key) {
			e.key = nil
			e.value = True
		}
	}
}

// AddAll copies every live entry of src into t, used by the INHERIT
// instruction to copy a superclass's methods into a subclass.
func AddAll(src, dst *Table) {
	for _, e := range src.entries {
		if !e.isEmpty() && !e.isTombstone() {
			dst.Set(e.key, e.value)
		}
	}
}

// Each calls fn once per live entry. Iteration order is not stable across
// resizes and must not be relied upon.
func (t *Table) Each(fn func(k *String, v Value)) {
	for _, e := range t.entries {
		if !e.isEmpty() && !e.isTombstone() {
			fn(e.key, e.value)
		}
	}
}

func (t *Table) findEntry(entries []entry, k *String) entry {
	return entries[t.findEntryIndex(entries, k)]
}

// findEntryIndex probes entries for k's slot, returning the index of the
// matching key, or the first tombstone-or-empty slot encountered if k is
// absent (so Set can insert there directly). Key comparison is identity
// (pointer equality), valid because strings are always interned (§4.3).
func (t *Table) findEntryIndex(entries []entry, k *String) int {
	mask := uint32(len(entries) - 1)
	idx := uint32(k.Hash) & mask
	var tombstone int = -1
	for {
		e := &entries[idx]
		switch {
		case e.key == nil && e.value == nil: // empty
			if tombstone != -1 {
				return tombstone
			}
			return int(idx)
		case e.key == nil: // tombstone
			if tombstone == -1 {
				tombstone = int(idx)
			}
		case e.key == k:
			return int(idx)
		}
		idx = (idx + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := initialCapacity
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	newEntries := make([]entry, newCap)

	// Rehash live entries only: resize drops tombstones (§4.4).
	count := 0
	for _, e := range t.entries {
		if e.isEmpty() || e.isTombstone() {
			continue
		}
		idx := t.findEntryIndex(newEntries, e.key)
		newEntries[idx] = e
		count++
	}
	t.entries = newEntries
	t.count = count
}
