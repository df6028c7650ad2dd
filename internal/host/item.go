package host

type ItemKind uint8

const (
	ItemFn ItemKind = iota + 1
	ItemConst
	ItemStatic
	ItemStruct
	ItemEnum
	ItemTyAlias
	ItemUse
	ItemMod
	ItemImpl
	itemKindEnd
)

// Item is a top-level or nested definition.
type Item struct {
	Def  DefID
	Name Symbol
	Span Span
	Vis  Visibility
	Kind ItemKind
	Data ItemData
}

type ItemData interface {
	itemKind() ItemKind
}

type Param struct {
	Pat  *Pat
	Ty   TyID
	Span Span
}

type FnItem struct {
	Generics Generics
	Params   []Param
	Output   TyID
	Body     *Expr
	IsConst  bool
}

// ConstItem is a named constant; its value is the item's own definition
// evaluated in its parameter environment.
type ConstItem struct {
	Generics Generics
	Ty       TyID
	Body     *Expr
}

type StaticItem struct {
	Mut  Mutability
	Ty   TyID
	Body *Expr
}

type FieldDef struct {
	Name Symbol
	Ty   TyID
	Vis  Visibility
	Span Span
}

type StructItem struct {
	Generics Generics
	Fields   []FieldDef
}

// VariantDef is one enum variant. Discr is the explicit discriminant, if any.
type VariantDef struct {
	Name   Symbol
	Fields []FieldDef
	Discr  *Const
	Span   Span
}

type EnumItem struct {
	Generics Generics
	Variants []VariantDef
}

type TyAliasItem struct {
	Generics Generics
	Ty       TyID
}

type UseItem struct {
	Path   []Symbol
	Target DefID
}

type ModItem struct {
	Items []*Item
}

// ImplItem is an inherent impl (Trait == NoDefID) or a trait impl.
type ImplItem struct {
	Generics Generics
	SelfTy   TyID
	Trait    DefID
	Items    []*Item
}

func (*FnItem) itemKind() ItemKind      { return ItemFn }
func (*ConstItem) itemKind() ItemKind   { return ItemConst }
func (*StaticItem) itemKind() ItemKind  { return ItemStatic }
func (*StructItem) itemKind() ItemKind  { return ItemStruct }
func (*EnumItem) itemKind() ItemKind    { return ItemEnum }
func (*TyAliasItem) itemKind() ItemKind { return ItemTyAlias }
func (*UseItem) itemKind() ItemKind     { return ItemUse }
func (*ModItem) itemKind() ItemKind     { return ItemMod }
func (*ImplItem) itemKind() ItemKind    { return ItemImpl }

func NewItem(def DefID, name Symbol, span Span, vis Visibility, data ItemData) *Item {
	return &Item{Def: def, Name: name, Span: span, Vis: vis, Kind: data.itemKind(), Data: data}
}

func NewItemData(kind ItemKind) ItemData {
	switch kind {
	case ItemFn:
		return &FnItem{}
	case ItemConst:
		return &ConstItem{}
	case ItemStatic:
		return &StaticItem{}
	case ItemStruct:
		return &StructItem{}
	case ItemEnum:
		return &EnumItem{}
	case ItemTyAlias:
		return &TyAliasItem{}
	case ItemUse:
		return &UseItem{}
	case ItemMod:
		return &ModItem{}
	case ItemImpl:
		return &ImplItem{}
	}
	return nil
}

func ItemVariants() []ItemData {
	out := make([]ItemData, 0, int(itemKindEnd)-1)
	for k := ItemFn; k < itemKindEnd; k++ {
		out = append(out, NewItemData(k))
	}
	return out
}

// Unit is one compilation unit as handed over after type checking.
type Unit struct {
	Name  string
	Items []*Item
}
