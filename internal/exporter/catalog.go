package exporter

import (
	"sync"

	"irx/internal/convert"
	"irx/internal/diag"
	"irx/internal/exported"
	"irx/internal/host"
)

// Catalog returns the registry shared by every Engine. It is built once;
// derivation plans cached in it depend on types only.
var Catalog = sync.OnceValue(NewCatalog)

// NewCatalog builds a fresh registry with every sum declaration, rejection
// and override of the exporter.
func NewCatalog() *convert.Registry {
	r := convert.NewRegistry()

	convert.DeclareSum(r, host.ItemVariants()...)
	convert.DeclareSum(r, host.ExprVariants()...)
	convert.DeclareSum(r, host.StmtVariants()...)
	convert.DeclareSum(r, host.PatVariants()...)
	convert.DeclareSum(r, host.TyVariants()...)

	convert.Reject[*host.InferTy](r, diag.CtxUnresolvedInference, "type inference variable survived type checking")
	convert.Reject[*host.ErrorTy](r, diag.ConvErrorNode, "error type reached the exporter")

	convert.Override(r, symbol)
	convert.Override(r, mutability)
	convert.Override(r, constant)
	convert.Override(r, optConstant)
	convert.Override(r, defPath)
	convert.Override(r, tyTree)
	convert.Override(r, optTy)
	convert.Override(r, genericArg)
	convert.Override(r, span)
	convert.Override(r, item)
	convert.Override(r, items)
	convert.Override(r, expr)
	convert.Override(r, constItem)

	return r
}

// Verify checks that the catalog covers a unit's item tree and the
// standalone node types completely.
func Verify(r *convert.Registry) []error {
	var errs []error
	errs = append(errs, convert.Verify[host.Item, exported.Item](r)...)
	errs = append(errs, convert.Verify[host.ConstItem, exported.ConstItem](r)...)
	errs = append(errs, convert.Verify[host.Expr, exported.Expr](r)...)
	errs = append(errs, convert.Verify[host.Pat, exported.Pat](r)...)
	errs = append(errs, convert.Verify[host.Stmt, exported.Stmt](r)...)
	errs = append(errs, convert.Verify[host.TyData, exported.Ty](r)...)
	return errs
}
