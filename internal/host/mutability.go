package host

// Mutability is the host's mutability state. It has more states than the
// exported boolean: MutInferred is a mutability not yet fixed by inference,
// MutUniqueImm is a unique but read-only borrow (closure captures).
type Mutability uint8

const (
	MutNot Mutability = iota
	MutMut
	MutInferred
	MutUniqueImm
)

// AllMutabilities lists every state, in declaration order.
func AllMutabilities() []Mutability {
	return []Mutability{MutNot, MutMut, MutInferred, MutUniqueImm}
}

func (m Mutability) String() string {
	switch m {
	case MutNot:
		return "not"
	case MutMut:
		return "mut"
	case MutInferred:
		return "inferred"
	case MutUniqueImm:
		return "unique-imm"
	}
	return "unknown"
}
