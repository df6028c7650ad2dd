// Package config loads irx.toml.
//
//	[export]
//	format = "json"              # json | msgpack
//	out_dir = "irx-out"
//	max_expansion_depth = 128
//	jobs = 0                     # snapshot loaders; 0 = GOMAXPROCS
//
//	[macros]
//	opaque = ["std::println", "log::*"]
//
//	[diagnostics]
//	max = 100
//	format = "pretty"            # pretty | json | short
//	min_severity = "info"        # info | warning | error; display only
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"irx/internal/diag"
	"irx/internal/spans"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "irx.toml"

var (
	OutputFormats     = []string{"json", "msgpack"}
	DiagnosticFormats = []string{"pretty", "json", "short"}
)

type Export struct {
	Format            string `toml:"format"`
	OutDir            string `toml:"out_dir"`
	MaxExpansionDepth int    `toml:"max_expansion_depth"`
	Jobs              int    `toml:"jobs"`
}

type Macros struct {
	Opaque []string `toml:"opaque"`
}

type Diagnostics struct {
	Max    int    `toml:"max"`
	Format string `toml:"format"`
	// MinSeverity hides lower severities from the rendered output. Unit
	// failure still counts every error.
	MinSeverity string `toml:"min_severity"`
}

// Config is the merged configuration. Path is empty when no file was read.
type Config struct {
	Path        string      `toml:"-"`
	Export      Export      `toml:"export"`
	Macros      Macros      `toml:"macros"`
	Diagnostics Diagnostics `toml:"diagnostics"`
}

func Default() Config {
	return Config{
		Export: Export{
			Format:            "json",
			OutDir:            "irx-out",
			MaxExpansionDepth: spans.DefaultLimit,
		},
		Diagnostics: Diagnostics{Max: 100, Format: "pretty", MinSeverity: "info"},
	}
}

// Find walks up from startDir to locate irx.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path over the defaults. Keys the file leaves out keep their
// default; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads explicit when given, otherwise the nearest irx.toml above
// startDir, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(OutputFormats, c.Export.Format) {
		errs = append(errs, fmt.Errorf("export.format %q is not one of %s", c.Export.Format, strings.Join(OutputFormats, "|")))
	}
	if strings.TrimSpace(c.Export.OutDir) == "" {
		errs = append(errs, errors.New("export.out_dir is empty"))
	}
	if c.Export.MaxExpansionDepth < 1 {
		errs = append(errs, fmt.Errorf("export.max_expansion_depth must be positive, got %d", c.Export.MaxExpansionDepth))
	}
	if c.Export.Jobs < 0 {
		errs = append(errs, fmt.Errorf("export.jobs must not be negative, got %d", c.Export.Jobs))
	}
	for _, p := range c.Macros.Opaque {
		if err := CheckMacroPattern(p); err != nil {
			errs = append(errs, fmt.Errorf("macros.opaque: %w", err))
		}
	}
	if c.Diagnostics.Max < 1 {
		errs = append(errs, fmt.Errorf("diagnostics.max must be positive, got %d", c.Diagnostics.Max))
	}
	if !slices.Contains(DiagnosticFormats, c.Diagnostics.Format) {
		errs = append(errs, fmt.Errorf("diagnostics.format %q is not one of %s", c.Diagnostics.Format, strings.Join(DiagnosticFormats, "|")))
	}
	if _, err := diag.ParseSeverity(c.Diagnostics.MinSeverity); err != nil {
		errs = append(errs, fmt.Errorf("diagnostics.min_severity: %w", err))
	}
	return errors.Join(errs...)
}

// CheckMacroPattern rejects patterns spans.MatchMacro could never match.
func CheckMacroPattern(p string) error {
	segs := strings.Split(p, "::")
	for i, seg := range segs {
		switch {
		case seg == "":
			return fmt.Errorf("pattern %q has an empty segment", p)
		case seg == "**" && i != len(segs)-1:
			return fmt.Errorf("pattern %q: ** must be the last segment", p)
		}
	}
	return nil
}
