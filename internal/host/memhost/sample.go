package memhost

import (
	"irx/internal/host"
)

const sampleLib = `const WIDTH: u32 = 4 * 8;
const ORIGIN: (bool, u32) = (true, WIDTH + 1);

struct Grid<const N: usize> {
    cells: [u8; N],
}

fn area<const N: usize>(g: &Grid<N>) -> usize {
    N * 2
}

static mut COUNTER: u32 = 0;

fn squared() -> u32 {
    let w = square!(WIDTH);
    w
}

log_items! {
    static VERBOSE: bool = true;
}
`

const sampleMacros = `macro_rules! square {
    ($e:expr) => { $e * $e };
}

macro_rules! log_items {
    ($($i:item)*) => { $($i)* fn log_enabled() -> bool { true } };
}
`

// SampleOpaqueMacro is the macro of the sample that is meant to be kept opaque.
const SampleOpaqueMacro = "demo::log_items"

// Sample builds a small session with one unit, "lib", exercising constants,
// const generics, an inlined bang macro (square!) and an item macro
// (log_items!) suited to opaque export.
func Sample() *Session {
	b := NewBuilder("demo")
	lib := b.File("src/lib.rs", sampleLib)
	mac := b.File("src/macros.rs", sampleMacros)

	boolTy, u8Ty, u32Ty, usizeTy := b.Bool(), b.Int(8, false), b.Int(32, false), b.Int(0, false)
	at := func(needle string, nth ...int) host.Span { return b.Find(lib, needle, nth...) }

	square := b.Def(host.DefMacro, "demo::square")
	logItems := b.Def(host.DefMacro, "demo::log_items")

	// const WIDTH: u32 = 4 * 8;
	width := b.Def(host.DefConst, "demo::WIDTH")
	widthBody := Binary(u32Ty, at("4 * 8"), host.BinMul, UintLit(u32Ty, at("4"), 4), UintLit(u32Ty, at("8"), 8))
	b.Body(width, widthBody)
	widthItem := host.NewItem(width, b.Sym("WIDTH"), at("const WIDTH: u32 = 4 * 8;"), host.VisPrivate,
		&host.ConstItem{Ty: u32Ty, Body: widthBody})

	// const ORIGIN: (bool, u32) = (true, WIDTH + 1);
	origin := b.Def(host.DefConst, "demo::ORIGIN")
	pairTy := b.Tuple(boolTy, u32Ty)
	originBody := host.NewExpr(pairTy, at("(true, WIDTH + 1)"), &host.TupleExpr{Elems: []*host.Expr{
		BoolLit(boolTy, at("true"), true),
		Binary(u32Ty, at("WIDTH + 1"), host.BinAdd, UseConst(u32Ty, at("WIDTH", 1), width), UintLit(u32Ty, Head(at("1)"), 1), 1)),
	}})
	b.Body(origin, originBody)
	originItem := host.NewItem(origin, b.Sym("ORIGIN"), at("const ORIGIN: (bool, u32) = (true, WIDTH + 1);"), host.VisPrivate,
		&host.ConstItem{Ty: pairTy, Body: originBody})

	// struct Grid<const N: usize> { cells: [u8; N] }
	grid := b.Def(host.DefStruct, "demo::Grid")
	gridN := b.ConstParam(grid, "N", usizeTy, at("const N: usize"))
	cellsTy := b.Array(u8Ty, host.MakeConst(usizeTy, &host.ParamConst{Index: gridN.Index, Name: gridN.Name}))
	cells := host.FieldDef{Name: b.Sym("cells"), Ty: cellsTy, Span: at("cells: [u8; N]")}
	b.Adt(grid, host.VariantDef{Name: b.Sym("Grid"), Fields: []host.FieldDef{cells}, Span: at("Grid<const N: usize>")})
	gridItem := host.NewItem(grid, b.Sym("Grid"), at("struct Grid<const N: usize> {\n    cells: [u8; N],\n}"), host.VisPrivate,
		&host.StructItem{Generics: b.Generics(grid), Fields: []host.FieldDef{cells}})

	// fn area<const N: usize>(g: &Grid<N>) -> usize { N * 2 }
	area := b.Def(host.DefFn, "demo::area")
	areaN := b.ConstParam(area, "N", usizeTy, at("const N: usize", 1))
	areaNConst := host.MakeConst(usizeTy, &host.ParamConst{Index: areaN.Index, Name: areaN.Name})
	gridRef := b.Ref(host.MutNot, b.Type(&host.AdtTy{Def: grid, Args: []host.GenericArg{host.ConstArg(areaNConst)}}))
	gLocal := host.LocalID(1)
	areaBody := host.NewExpr(usizeTy, at("{\n    N * 2\n}"), &host.BlockExpr{
		Tail: Binary(usizeTy, at("N * 2"), host.BinMul,
			host.NewExpr(usizeTy, Head(at("N * 2"), 1), &host.ParamConstRef{Index: areaN.Index, Name: areaN.Name}),
			UintLit(usizeTy, Head(at("2\n"), 1), 2)),
	})
	areaItem := host.NewItem(area, b.Sym("area"), at("fn area<const N: usize>(g: &Grid<N>) -> usize {\n    N * 2\n}"), host.VisPrivate,
		&host.FnItem{
			Generics: b.Generics(area),
			Params: []host.Param{{
				Pat:  host.NewPat(gridRef, Head(at("g: &Grid<N>"), 1), &host.BindingPat{Name: b.Sym("g"), Local: gLocal, Mut: host.MutNot}),
				Ty:   gridRef,
				Span: at("g: &Grid<N>"),
			}},
			Output: usizeTy,
			Body:   areaBody,
		})

	// static mut COUNTER: u32 = 0;
	counter := b.Def(host.DefStatic, "demo::COUNTER")
	counterItem := host.NewItem(counter, b.Sym("COUNTER"), at("static mut COUNTER: u32 = 0;"), host.VisPrivate,
		&host.StaticItem{Mut: host.MutMut, Ty: u32Ty, Body: UintLit(u32Ty, Head(at("0;"), 1), 0)})

	// fn squared() -> u32 { let w = square!(WIDTH); w }
	squareExpn := b.BangMacro(square, at("square!(WIDTH)"), at("WIDTH", 2))
	tmpl := b.Find(mac, "$e * $e")
	operand := func(nth int) *host.Expr {
		return UseConst(u32Ty, In(squareExpn, b.Find(mac, "$e", 1+nth)), width)
	}
	expanded := Binary(u32Ty, In(squareExpn, tmpl), host.BinMul, operand(0), operand(1))
	squared := b.Def(host.DefFn, "demo::squared")
	wLocal := host.LocalID(1)
	squaredBody := host.NewExpr(u32Ty, at("{\n    let w = square!(WIDTH);\n    w\n}"), &host.BlockExpr{
		Stmts: []host.Stmt{host.NewStmt(at("let w = square!(WIDTH);"), &host.LetStmt{
			Pat:  host.NewPat(u32Ty, Head(at("w = square"), 1), &host.BindingPat{Name: b.Sym("w"), Local: wLocal, Mut: host.MutNot}),
			Init: expanded,
		})},
		Tail: host.NewExpr(u32Ty, Head(at("w\n}"), 1), &host.LocalRef{Local: wLocal, Name: b.Sym("w")}),
	})
	squaredItem := host.NewItem(squared, b.Sym("squared"), at("fn squared() -> u32 {\n    let w = square!(WIDTH);\n    w\n}"), host.VisPrivate,
		&host.FnItem{Output: u32Ty, Body: squaredBody})

	// log_items! { static VERBOSE: bool = true; }
	logExpn := b.BangMacro(logItems, at("log_items! {\n    static VERBOSE: bool = true;\n}"), at("\n    static VERBOSE: bool = true;\n"))
	verbose := b.Def(host.DefStatic, "demo::VERBOSE")
	verboseItem := host.NewItem(verbose, b.Sym("VERBOSE"), In(logExpn, b.Find(mac, "$($i)*")), host.VisPrivate,
		&host.StaticItem{Mut: host.MutNot, Ty: boolTy, Body: BoolLit(boolTy, In(logExpn, b.Find(mac, "$($i)*")), true)})
	enabled := b.Def(host.DefFn, "demo::log_enabled")
	enabledBody := BoolLit(boolTy, In(logExpn, b.Find(mac, "{ true }")), true)
	enabledItem := host.NewItem(enabled, b.Sym("log_enabled"), In(logExpn, b.Find(mac, "fn log_enabled() -> bool { true }")), host.VisPrivate,
		&host.FnItem{Output: boolTy, Body: enabledBody})

	b.Unit("lib", widthItem, originItem, gridItem, areaItem, counterItem, squaredItem, verboseItem, enabledItem)
	return b.Session()
}
