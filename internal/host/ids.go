package host

import "irx/internal/source"

type (
	// DefID identifies a definition (item, variant, macro, anonymous const).
	DefID uint32
	// TyID identifies an interned type.
	TyID uint32
	// LocalID identifies a local binding inside one body.
	LocalID uint32
	// Symbol is an interned identifier.
	Symbol source.StringID
	// ExpnID identifies a macro or desugaring expansion.
	ExpnID uint32
)

const (
	NoDefID DefID = 0
	NoTyID  TyID  = 0
	// RootExpn marks code that was written by the user.
	RootExpn ExpnID = 0
)

func (id DefID) IsValid() bool { return id != NoDefID }
func (id TyID) IsValid() bool  { return id != NoTyID }

// Visibility of an item or field.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisCrate
	VisPublic
)

func (v Visibility) String() string {
	switch v {
	case VisPrivate:
		return "private"
	case VisCrate:
		return "crate"
	case VisPublic:
		return "public"
	}
	return "unknown"
}
