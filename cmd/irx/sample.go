package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irx/internal/driver"
	"irx/internal/exporter"
	"irx/internal/host/memhost"
)

func newSampleCmd() *cobra.Command {
	var (
		write  string
		format string
		opaque bool
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the built-in demo session, or print its export",
		Long: `Without --write, exports the built-in "demo" session and prints the unit.
With --write, saves the session as a snapshot that "irx export" can read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			s := memhost.Sample()
			if write != "" {
				if err := s.SaveFile(write); err != nil {
					return fmt.Errorf("write sample: %w", err)
				}
				if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", write)
				}
				return nil
			}

			f, err := driver.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := driver.Options{MaxDiagnostics: 100}
			if opaque {
				opts.Export = exporter.Options{OpaqueMacros: []string{memhost.SampleOpaqueMacro}}
			}
			report, err := driver.New(opts).Run(cmd.Context(), s)
			if err != nil {
				return err
			}
			for _, u := range report.Units {
				if err := driver.Encode(cmd.OutOrStdout(), u.Result.Unit, f); err != nil {
					return err
				}
			}
			if report.Failed() {
				return fmt.Errorf("sample export failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&write, "write", "w", "", "save the session snapshot to this path (use the "+driver.SnapshotExt+" extension)")
	cmd.Flags().StringVar(&format, "format", "json", "output format when printing (json|msgpack)")
	cmd.Flags().BoolVar(&opaque, "opaque", false, "keep "+memhost.SampleOpaqueMacro+" invocations opaque")
	return cmd
}
