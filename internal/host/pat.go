package host

type PatKind uint8

const (
	PatWild PatKind = iota + 1
	PatBinding
	PatTuple
	PatConst
	PatRange
	PatVariant
	PatOr
	PatRef
	patKindEnd
)

// Pat is a typed pattern.
type Pat struct {
	Kind PatKind
	Ty   TyID
	Span Span
	Data PatData
}

type PatData interface {
	patKind() PatKind
}

type WildPat struct{}

type BindingPat struct {
	Name  Symbol
	Local LocalID
	Mut   Mutability
	ByRef bool
	Sub   *Pat
}

type TuplePat struct {
	Elems []*Pat
}

// ConstPat matches against a constant, which may still need evaluation.
type ConstPat struct {
	Value Const
}

type RangePat struct {
	Lo        Const
	Hi        Const
	Inclusive bool
}

type FieldPat struct {
	Name Symbol
	Pat  *Pat
}

type VariantPat struct {
	Def     DefID
	Variant uint32
	Fields  []FieldPat
}

type OrPat struct {
	Alts []*Pat
}

type RefPat struct {
	Mut   Mutability
	Inner *Pat
}

func (*WildPat) patKind() PatKind    { return PatWild }
func (*BindingPat) patKind() PatKind { return PatBinding }
func (*TuplePat) patKind() PatKind   { return PatTuple }
func (*ConstPat) patKind() PatKind   { return PatConst }
func (*RangePat) patKind() PatKind   { return PatRange }
func (*VariantPat) patKind() PatKind { return PatVariant }
func (*OrPat) patKind() PatKind      { return PatOr }
func (*RefPat) patKind() PatKind     { return PatRef }

func NewPat(ty TyID, span Span, data PatData) *Pat {
	return &Pat{Kind: data.patKind(), Ty: ty, Span: span, Data: data}
}

func NewPatData(kind PatKind) PatData {
	switch kind {
	case PatWild:
		return &WildPat{}
	case PatBinding:
		return &BindingPat{}
	case PatTuple:
		return &TuplePat{}
	case PatConst:
		return &ConstPat{}
	case PatRange:
		return &RangePat{}
	case PatVariant:
		return &VariantPat{}
	case PatOr:
		return &OrPat{}
	case PatRef:
		return &RefPat{}
	}
	return nil
}

func PatVariants() []PatData {
	out := make([]PatData, 0, int(patKindEnd)-1)
	for k := PatWild; k < patKindEnd; k++ {
		out = append(out, NewPatData(k))
	}
	return out
}
