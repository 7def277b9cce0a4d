// Package table implements the open-addressed hash table used for
// globals, class method tables, instance fields, and string interning.
package table

import "github.com/wyvernscript/smog/pkg/value"

const (
	initialCapacity = 8
	maxLoadFactor   = 0.75
)

// entry is a single hash-table slot. A tombstone is an entry whose Key
// is nil but whose Value carries the boolean true; it is distinguished
// from a never-used slot (Key nil, Value the zero Value) so that probes
// keep scanning past deleted slots.
type entry struct {
	Key   *value.ObjString
	Value value.Value
}

func (e *entry) isTombstone() bool {
	return e.Key == nil && e.Value.Kind == value.KindBool && e.Value.Bool
}

func (e *entry) isEmpty() bool {
	return e.Key == nil && !e.isTombstone()
}

// Table is an open-addressed, linear-probing hash table. Capacity is
// always a power of two so probing can mask instead of mod; count
// includes tombstones for load-factor purposes but Len reports the
// logical (tombstone-excluded) size.
type Table struct {
	entries  []entry
	count    int // live entries + tombstones
	liveKeys int
}

// New returns an empty table. It allocates lazily: the backing array is
// not created until the first Set, matching the data model's "initial
// capacity 8 on first insertion."
func New() *Table {
	return &Table{}
}

// Len reports the number of live (non-tombstone) entries.
func (t *Table) Len() int { return t.liveKeys }

// Get looks up key, returning (value, true) on a live hit.
func (t *Table) Get(key *value.ObjString) (value.Value, bool) {
	if len(t.entries) == 0 || key == nil {
		return value.Nil(), false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return value.Nil(), false
	}
	return e.Value, true
}

// Set inserts or overwrites key's value. It returns true if key was not
// present before (whether it landed in an empty slot or reused a
// tombstone) and false if it overwrote an existing entry.
func (t *Table) Set(key *value.ObjString, v value.Value) bool {
	if key == nil {
		return false
	}
	if float64(t.count+1) > float64(len(t.entries))*maxLoadFactor {
		t.grow()
	}
	e := findEntry(t.entries, key)
	isNewKey := e.Key == nil
	if isNewKey && !e.isTombstone() {
		t.count++
	}
	if isNewKey {
		t.liveKeys++
	}
	e.Key = key
	e.Value = v
	return isNewKey
}

// Delete removes key, leaving a tombstone behind so later probes still
// find keys that hashed past this slot. Reports whether key was present.
func (t *Table) Delete(key *value.ObjString) bool {
	if len(t.entries) == 0 || key == nil {
		return false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = value.Bool(true)
	t.liveKeys--
	return true
}

// AddAll copies every live entry of src into t, used by INHERIT to copy
// a superclass's method table into a subclass.
func (t *Table) AddAll(src *Table) {
	for i := range src.entries {
		e := &src.entries[i]
		if e.Key != nil {
			t.Set(e.Key, e.Value)
		}
	}
}

// FindString performs the structural lookup that backs string interning:
// given raw characters, length, and precomputed hash, it returns the
// canonical *ObjString if one is already present. This is the only path
// by which the heap decides whether a new String needs allocating.
func (t *Table) FindString(chars string, hash uint32) *value.ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	index := hash & mask
	for {
		e := &t.entries[index]
		if e.Key == nil {
			if !e.isTombstone() {
				return nil
			}
		} else if e.Key.Hash == hash && e.Key.Chars == chars {
			return e.Key
		}
		index = (index + 1) & mask
	}
}

// Keys returns every live key.
func (t *Table) Keys() []*value.ObjString {
	keys := make([]*value.ObjString, 0, t.liveKeys)
	for i := range t.entries {
		if t.entries[i].Key != nil {
			keys = append(keys, t.entries[i].Key)
		}
	}
	return keys
}

// Each calls fn for every live key/value pair.
func (t *Table) Each(fn func(key *value.ObjString, v value.Value)) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil {
			fn(e.Key, e.Value)
		}
	}
}

// DeleteWhite removes every live entry whose key is unmarked — the
// weak-clear phase of collection, used only by the intern table.
func (t *Table) DeleteWhite() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil && !value.Head(e.Key).Marked {
			e.Key = nil
			e.Value = value.Bool(true)
			t.liveKeys--
		}
	}
}

func findEntry(entries []entry, key *value.ObjString) *entry {
	mask := uint32(len(entries) - 1)
	index := key.Hash & mask
	var tombstone *entry
	for {
		e := &entries[index]
		switch {
		case e.Key == nil:
			if e.isTombstone() {
				if tombstone == nil {
					tombstone = e
				}
			} else {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
		case e.Key == key:
			return e
		}
		index = (index + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := initialCapacity
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	newEntries := make([]entry, newCap)
	t.count = 0
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key == nil {
			continue
		}
		dst := findEntry(newEntries, e.Key)
		dst.Key = e.Key
		dst.Value = e.Value
		t.count++
	}
	t.entries = newEntries
}
