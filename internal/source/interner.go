package source

import (
	"slices"
)

type StringID uint32

const NoStringID StringID = 0

// Interner maps strings to dense IDs. ID 0 is reserved for the empty string.
type Interner struct {
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// NewInternerFrom rebuilds an interner from a Snapshot, keeping every ID stable.
func NewInternerFrom(snapshot []string) *Interner {
	in := NewInterner()
	for _, s := range snapshot[min(1, len(snapshot)):] {
		id := StringID(len(in.byID)) // #nosec G115 -- snapshot produced by Snapshot
		in.byID = append(in.byID, s)
		if _, dup := in.index[s]; !dup {
			in.index[s] = id
		}
	}
	return in
}

// Intern вставляет строку и возвращает её ID; повторная вставка возвращает тот же ID.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// собственная копия, чтобы не зависеть от исходного буфера
	cpy := string([]byte(s))
	id := StringID(len(i.byID)) // #nosec G115 -- interner never grows past uint32
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup возвращает строку по ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts NoStringID too, so it is never below 1.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all strings indexed by ID.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
