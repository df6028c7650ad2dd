package driver

import (
	"encoding/json"
	"fmt"

	"irx/internal/diag"
	"irx/internal/observ"
	"irx/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Unit    string               `json:"unit,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "unit"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Unit != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Unit)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.ReportInfo(nil, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data)).
		Diagnostic()

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(len(bag.Items()) + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
