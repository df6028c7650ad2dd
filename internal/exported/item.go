package exported

type Item struct {
	_        struct{}     `drop:"Kind"`
	Def      Path         `json:"def"`
	Name     Symbol       `json:"name"`
	Span     Span         `json:"span"`
	Vis      string       `json:"vis"`
	Contents ItemContents `json:"contents" from:"Data"`
}

type ItemContents struct {
	_               struct{}         `export:"oneof"`
	Fn              *FnItem          `json:"fn,omitempty" from:"FnItem"`
	Const           *ConstItem       `json:"const,omitempty" from:"ConstItem"`
	Static          *StaticItem      `json:"static,omitempty" from:"StaticItem"`
	Struct          *StructItem      `json:"struct,omitempty" from:"StructItem"`
	Enum            *EnumItem        `json:"enum,omitempty" from:"EnumItem"`
	TyAlias         *TyAliasItem     `json:"ty_alias,omitempty" from:"TyAliasItem"`
	Use             *UseItem         `json:"use,omitempty" from:"UseItem"`
	Mod             *ModItem         `json:"mod,omitempty" from:"ModItem"`
	Impl            *ImplItem        `json:"impl,omitempty" from:"ImplItem"`
	MacroInvocation *MacroInvocation `json:"macro_invocation,omitempty" from:"-"`
}

type Param struct {
	Pat  *Pat `json:"pat"`
	Ty   Ty   `json:"ty"`
	Span Span `json:"span"`
}

type FnItem struct {
	Generics Generics `json:"generics"`
	Params   []Param  `json:"params"`
	Output   Ty       `json:"output"`
	Body     *Expr    `json:"body,omitempty"`
	IsConst  bool     `json:"is_const"`
}

// ConstItem carries the evaluated Value only when the item has no generic
// parameters; a generic constant has no single value.
type ConstItem struct {
	Generics Generics `json:"generics"`
	Ty       Ty       `json:"ty"`
	Body     *Expr    `json:"body,omitempty"`
	Value    Const    `json:"value,omitempty" from:"-"`
}

type StaticItem struct {
	Mut  Mutability `json:"mut"`
	Ty   Ty         `json:"ty"`
	Body *Expr      `json:"body,omitempty"`
}

type FieldDef struct {
	Name Symbol `json:"name"`
	Ty   Ty     `json:"ty"`
	Vis  string `json:"vis"`
	Span Span   `json:"span"`
}

type StructItem struct {
	Generics Generics   `json:"generics"`
	Fields   []FieldDef `json:"fields"`
}

type VariantDef struct {
	Name   Symbol     `json:"name"`
	Fields []FieldDef `json:"fields,omitempty"`
	Discr  Const      `json:"discr,omitempty"`
	Span   Span       `json:"span"`
}

type EnumItem struct {
	Generics Generics     `json:"generics"`
	Variants []VariantDef `json:"variants"`
}

type TyAliasItem struct {
	Generics Generics `json:"generics"`
	Ty       Ty       `json:"ty"`
}

type UseItem struct {
	Path   []Symbol `json:"path"`
	Target Path     `json:"target"`
}

type ModItem struct {
	Items []Item `json:"items"`
}

type ImplItem struct {
	Generics Generics `json:"generics"`
	SelfTy   Ty       `json:"self_ty"`
	Trait    Path     `json:"trait,omitempty"`
	Items    []Item   `json:"items"`
}
