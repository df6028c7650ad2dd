package exported

type Pat struct {
	_        struct{}    `drop:"Kind"`
	Ty       Ty          `json:"ty"`
	Span     Span        `json:"span"`
	Contents PatContents `json:"contents" from:"Data"`
}

type PatContents struct {
	_       struct{}    `export:"oneof"`
	Wild    *WildPat    `json:"wild,omitempty" from:"WildPat"`
	Binding *BindingPat `json:"binding,omitempty" from:"BindingPat"`
	Tuple   *TuplePat   `json:"tuple,omitempty" from:"TuplePat"`
	Const   *ConstPat   `json:"const,omitempty" from:"ConstPat"`
	Range   *RangePat   `json:"range,omitempty" from:"RangePat"`
	Variant *VariantPat `json:"variant,omitempty" from:"VariantPat"`
	Or      *OrPat      `json:"or,omitempty" from:"OrPat"`
	Ref     *RefPat     `json:"ref,omitempty" from:"RefPat"`
}

type WildPat struct{}

type BindingPat struct {
	Name  Symbol     `json:"name"`
	Local uint32     `json:"local"`
	Mut   Mutability `json:"mut"`
	ByRef bool       `json:"by_ref"`
	Sub   *Pat       `json:"sub,omitempty"`
}

type TuplePat struct {
	Elems []*Pat `json:"elems"`
}

type ConstPat struct {
	Value Const `json:"value"`
}

type RangePat struct {
	Lo        Const `json:"lo"`
	Hi        Const `json:"hi"`
	Inclusive bool  `json:"inclusive"`
}

type FieldPat struct {
	Name Symbol `json:"name"`
	Pat  *Pat   `json:"pat"`
}

type VariantPat struct {
	Def     Path       `json:"def"`
	Variant uint32     `json:"variant"`
	Fields  []FieldPat `json:"fields"`
}

type OrPat struct {
	Alts []*Pat `json:"alts"`
}

type RefPat struct {
	Mut   Mutability `json:"mut"`
	Inner *Pat       `json:"inner"`
}
