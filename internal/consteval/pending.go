package consteval

import (
	"errors"
	"fmt"

	"irx/internal/diag"
	"irx/internal/host"
)

// State of a Pending constant.
type State uint8

const (
	Unevaluated State = iota
	Evaluated
	Failed
)

func (s State) String() string {
	switch s {
	case Unevaluated:
		return "unevaluated"
	case Evaluated:
		return "evaluated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is an evaluated constant. Param is set instead of Value when the
// constant is a parameter of the polymorphic environment it was met in.
type Result struct {
	Ty    host.TyID
	Value host.Value
	Param *host.GenericParamDef
}

// Failure is a terminal evaluation failure, already classified.
type Failure struct {
	Code diag.Code
	Msg  string
	Span host.Span
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code.ID(), f.Msg)
}

// Pending is a constant tied to one parameter environment.
type Pending struct {
	c     host.Const
	env   host.ParamEnv
	span  host.Span
	state State
	res   Result
	err   *Failure
}

// New wraps c for evaluation under env. span is where the constant is used;
// failures are attributed to it unless the host names a better one.
func New(env host.ParamEnv, c host.Const, span host.Span) *Pending {
	return &Pending{c: c, env: env, span: span}
}

func (p *Pending) State() State { return p.state }

// Force evaluates the constant on first use. The error, if any, is a *Failure.
func (p *Pending) Force(q host.QueryEngine) (Result, error) {
	if p.state == Unevaluated {
		p.res, p.err = p.eval(q)
		if p.err != nil {
			p.state = Failed
		} else {
			p.state = Evaluated
		}
	}
	if p.err != nil {
		return Result{}, p.err
	}
	return p.res, nil
}

func (p *Pending) fail(code diag.Code, format string, args ...any) (Result, *Failure) {
	return Result{}, &Failure{Code: code, Msg: fmt.Sprintf(format, args...), Span: p.span}
}

func (p *Pending) eval(q host.QueryEngine) (Result, *Failure) {
	c := p.c
	if c.Data == nil {
		return p.fail(diag.ConvMissingPayload, "constant of kind %d has no payload", c.Kind)
	}
	switch data := c.Data.(type) {
	case *host.ValueConst:
		return Result{Ty: c.Ty, Value: data.Value}, nil
	case *host.ParamConst:
		if !p.env.Instantiated() {
			param, ok := p.env.Param(data.Index)
			if !ok || param.Kind != host.ParamConstKind {
				return p.fail(diag.CtxUnresolvedParam, "const parameter #%d is not in scope of the current environment", data.Index)
			}
			return Result{Ty: c.Ty, Param: &param}, nil
		}
	case *host.InferConst:
		return p.fail(diag.CtxUnresolvedInference, "constant inference variable ?%d survived type checking", data.Var)
	case *host.ErrorConst:
		return p.fail(diag.ConvErrorNode, "constant was already reported as erroneous by the host")
	}

	v, err := q.EvalConst(p.env, c)
	if err != nil {
		return Result{}, p.classify(err)
	}
	return Result{Ty: c.Ty, Value: v}, nil
}

func (p *Pending) classify(err error) *Failure {
	f := &Failure{Code: diag.EvalFailure, Msg: err.Error(), Span: p.span}
	var ee *host.EvalError
	if !errors.As(err, &ee) {
		return f
	}
	if ee.Span.Range.Len() > 0 || ee.Span.FromExpansion() {
		f.Span = ee.Span
	}
	switch ee.Kind {
	case host.EvalTooGeneric:
		f.Code = diag.CtxUnresolvedParam
	case host.EvalNotConst:
		f.Code = diag.EvalNotConst
	case host.EvalUnresolvedTrait:
		f.Code = diag.EvalUnresolvedTrait
	case host.EvalOverflow:
		f.Code = diag.EvalOverflow
	case host.EvalDivByZero:
		f.Code = diag.EvalDivByZero
	case host.EvalCycle:
		f.Code = diag.EvalCycle
	case host.EvalMismatch:
		f.Code = diag.EvalTypeMismatch
	case host.EvalErrored:
		f.Code = diag.ConvErrorNode
	}
	return f
}
