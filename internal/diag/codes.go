package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Unsupported-node: a source variant with no conversion path.
	ConvInfo              Code = 1000
	ConvUnsupportedNode   Code = 1001
	ConvSchemaMismatch    Code = 1002
	ConvErrorNode         Code = 1003
	ConvUnknownMutability Code = 1004
	ConvMissingPayload    Code = 1005

	// Unresolved-context: a parameter environment or instantiation is missing.
	CtxInfo                Code = 2000
	CtxUnresolvedParam     Code = 2001
	CtxUnknownDef          Code = 2002
	CtxUnknownType         Code = 2003
	CtxUnknownSymbol       Code = 2004
	CtxUnresolvedInference Code = 2005

	// Evaluation-failure: the host constant engine rejected a constant.
	EvalInfo            Code = 3000
	EvalFailure         Code = 3001
	EvalCycle           Code = 3002
	EvalOverflow        Code = 3003
	EvalDivByZero       Code = 3004
	EvalNotConst        Code = 3005
	EvalUnresolvedTrait Code = 3006
	EvalTypeMismatch    Code = 3007

	// Macro-ancestry-overflow and other expansion walk problems.
	MacroInfo             Code = 4000
	MacroAncestryOverflow Code = 4001
	MacroUnknownExpansion Code = 4002

	// I/O
	IOLoadFileError Code = 5001
	IODecodeError   Code = 5002
	IOWriteError    Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

// Category names the error taxonomy bucket a code belongs to.
type Category string

const (
	CategoryUnsupportedNode       Category = "unsupported-node"
	CategoryUnresolvedContext     Category = "unresolved-context"
	CategoryEvaluationFailure     Category = "evaluation-failure"
	CategoryMacroAncestryOverflow Category = "macro-ancestry-overflow"
	CategoryIO                    Category = "io"
	CategoryObservability         Category = "observability"
	CategoryUnknown               Category = "unknown"
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		ConvInfo:               "Conversion information",
		ConvUnsupportedNode:    "Node has no exported counterpart",
		ConvSchemaMismatch:     "Source and exported shapes cannot be derived",
		ConvErrorNode:          "Host error node reached the exporter",
		ConvUnknownMutability:  "Mutability state is not triaged",
		ConvMissingPayload:     "Node has no payload",
		CtxInfo:                "Context information",
		CtxUnresolvedParam:     "Generic parameter is not instantiated",
		CtxUnknownDef:          "Unknown definition",
		CtxUnknownType:         "Unknown type",
		CtxUnknownSymbol:       "Unknown symbol",
		CtxUnresolvedInference: "Inference variable survived type checking",
		EvalInfo:               "Evaluation information",
		EvalFailure:            "Constant evaluation failed",
		EvalCycle:              "Constant depends on itself",
		EvalOverflow:           "Constant arithmetic overflow",
		EvalDivByZero:          "Constant division by zero",
		EvalNotConst:           "Expression is not allowed in a constant",
		EvalUnresolvedTrait:    "Constant depends on an unresolved trait method",
		EvalTypeMismatch:       "Constant value does not match its type",
		MacroInfo:              "Macro information",
		MacroAncestryOverflow:  "Macro expansion nesting exceeds the limit",
		MacroUnknownExpansion:  "Unknown macro expansion",
		IOLoadFileError:        "I/O load file error",
		IODecodeError:          "Snapshot decode error",
		IOWriteError:           "Output write error",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CNV%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CTX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MAC%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Category() Category {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return CategoryUnsupportedNode
	case ic >= 2000 && ic < 3000:
		return CategoryUnresolvedContext
	case ic >= 3000 && ic < 4000:
		return CategoryEvaluationFailure
	case ic >= 4000 && ic < 5000:
		return CategoryMacroAncestryOverflow
	case ic >= 5000 && ic < 6000:
		return CategoryIO
	case ic >= 6000 && ic < 7000:
		return CategoryObservability
	}
	return CategoryUnknown
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
