package main

import (
	"fmt"
	"io"

	"irx/internal/driver"
)

func printUnitTimings(out io.Writer, report *driver.Report) {
	if out == nil || report == nil {
		return
	}
	for _, u := range report.Units {
		if err := u.Timing.WriteTable(out, u.Name()); err != nil {
			return
		}
	}
	fmt.Fprintf(out, "all units: %s\n", report.Elapsed)
}
