package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"irx/internal/config"
	"irx/internal/diag"
	"irx/internal/diagfmt"
	"irx/internal/driver"
	"irx/internal/exported"
	"irx/internal/exporter"
	"irx/internal/host"
)

type exportFlags struct {
	configPath string
	out        string
	format     string
	diagFormat string
	maxDepth   int
	opaque     []string
	jobs       int
	ui         string
	dump       bool
	noWrite    bool
}

func newExportCmd() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export [snapshot.irxs|dir]...",
		Short: "Export every unit of the given session snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, &f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "path to irx.toml (default: nearest above the working directory)")
	fl.StringVarP(&f.out, "out", "o", "", "output directory (default: export.out_dir)")
	fl.StringVar(&f.format, "format", "", "output format (json|msgpack)")
	fl.StringVar(&f.diagFormat, "diagnostics-format", "", "diagnostics format (pretty|json|short)")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "macro ancestry depth limit")
	fl.StringSliceVar(&f.opaque, "opaque", nil, "macro path patterns exported as invocations (repeatable)")
	fl.IntVarP(&f.jobs, "jobs", "j", -1, "snapshot loaders (0 = GOMAXPROCS)")
	fl.StringVar(&f.ui, "ui", "auto", "progress UI (auto|on|off)")
	fl.BoolVar(&f.dump, "dump", false, "print exported trees to stdout")
	fl.BoolVar(&f.noWrite, "no-write", false, "do not write output files")
	return cmd
}

// mergeConfig applies explicitly set flags over the file configuration.
func mergeConfig(cmd *cobra.Command, f *exportFlags) (config.Config, error) {
	cfg, err := config.Resolve(f.configPath, ".")
	if err != nil {
		return config.Config{}, err
	}
	fl := cmd.Flags()
	if fl.Changed("out") {
		cfg.Export.OutDir = f.out
	}
	if fl.Changed("format") {
		cfg.Export.Format = f.format
	}
	if fl.Changed("max-depth") {
		cfg.Export.MaxExpansionDepth = f.maxDepth
	}
	if fl.Changed("jobs") {
		cfg.Export.Jobs = f.jobs
	}
	if fl.Changed("opaque") {
		cfg.Macros.Opaque = f.opaque
	}
	if fl.Changed("diagnostics-format") {
		cfg.Diagnostics.Format = f.diagFormat
	}
	if n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); n > 0 {
		cfg.Diagnostics.Max = n
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runExport(cmd *cobra.Command, f *exportFlags, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cfg, err := mergeConfig(cmd, f)
	if err != nil {
		return err
	}
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor, err := readColor(colorFlag, os.Stderr)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")

	paths, err := driver.ListSnapshots(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s snapshots under %v", driver.SnapshotExt, args)
	}
	sessions, err := driver.LoadSessions(cmd.Context(), paths, cfg.Export.Jobs, nil)
	if err != nil {
		return err
	}
	hosts := make([]host.Driver, len(sessions))
	for i, s := range sessions {
		hosts[i] = s
	}

	format, err := driver.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}
	opts := driver.Options{
		Export: exporter.Options{
			MaxExpansionDepth: cfg.Export.MaxExpansionDepth,
			OpaqueMacros:      cfg.Macros.Opaque,
		},
		Format:         format,
		OutDir:         cfg.Export.OutDir,
		MaxDiagnostics: cfg.Diagnostics.Max,
		// JSON diagnostics carry timings as OBS entries; other formats get a table.
		Timings: showTimings && cfg.Diagnostics.Format == string(diagfmt.FormatJSON),
	}
	if f.noWrite {
		opts.OutDir = ""
	}

	var report *driver.Report
	if !quiet && !f.dump && shouldUseTUI(mode) {
		report, err = runExportWithUI(cmd.Context(), "irx export", opts, hosts)
	} else {
		report, err = driver.New(opts).Run(cmd.Context(), hosts...)
	}
	if err != nil {
		return err
	}
	return finishExport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, cfg, f.dump, quiet, useColor, showTimings)
}

func finishExport(stdout, stderr io.Writer, report *driver.Report, cfg config.Config, dump, quiet, useColor, showTimings bool) error {
	diagFormat, err := diagfmt.ParseFormat(cfg.Diagnostics.Format)
	if err != nil {
		return err
	}
	minSev, err := diag.ParseSeverity(cfg.Diagnostics.MinSeverity)
	if err != nil {
		return err
	}
	for _, u := range report.Units {
		if shown := u.Bag.AtLeast(minSev); shown.Len() > 0 || shown.Dropped() > 0 {
			if err := diagfmt.Write(stderr, diagFormat, shown, u.Files, useColor); err != nil {
				return err
			}
		}
		if dump {
			fmt.Fprintf(stdout, "# %s\n", u.Name())
			if err := exported.Dump(stdout, u.Result.Unit); err != nil {
				return err
			}
		}
		if !quiet && u.Output != "" {
			fmt.Fprintf(stderr, "wrote %s\n", u.Output)
		}
	}
	if showTimings && diagFormat != diagfmt.FormatJSON {
		printUnitTimings(stderr, report)
	}
	errs, warns := report.Counts()
	if !quiet {
		fmt.Fprintf(stderr, "%d unit(s), %d error(s), %d warning(s)\n", len(report.Units), errs, warns)
	}
	if report.Failed() {
		return errors.New("export failed")
	}
	return nil
}
