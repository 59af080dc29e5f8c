package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the per-project configuration file.
const FileName = "annocheck.toml"

type fileConfig struct {
	Compiler compilerConfig    `toml:"compiler"`
	Problems map[string]string `toml:"problems"`
}

type compilerConfig struct {
	Compliance             string `toml:"compliance"`
	SuppressWarnings       bool   `toml:"suppress_warnings"`
	SuppressOptionalErrors bool   `toml:"suppress_optional_errors"`
	FatalOptionalError     bool   `toml:"fatal_optional_error"`
	MissingOverrideForImpl bool   `toml:"missing_override_for_interface_impl"`
	MaxDiagnostics         int    `toml:"max_diagnostics"`
}

// Find walks up from startDir looking for annocheck.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
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

// Load reads path on top of Default. Keys absent from the file keep their
// defaults.
func Load(path string) (Options, error) {
	opts := Default()
	if err := opts.LoadFile(path); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadFile merges the settings of path into o.
func (o *Options) LoadFile(path string) error {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: %w: %s", path, ErrUnknownOption, undecoded[0].String())
	}
	c := cfg.Compiler
	if meta.IsDefined("compiler", "compliance") {
		level, err := ParseCompliance(c.Compliance)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		o.Compliance = level
	}
	if meta.IsDefined("compiler", "suppress_warnings") {
		o.SuppressWarnings = c.SuppressWarnings
	}
	if meta.IsDefined("compiler", "suppress_optional_errors") {
		o.SuppressOptionalErrors = c.SuppressOptionalErrors
	}
	if meta.IsDefined("compiler", "fatal_optional_error") {
		o.FatalOptionalError = c.FatalOptionalError
	}
	if meta.IsDefined("compiler", "missing_override_for_interface_impl") {
		o.ReportMissingOverrideForInterfaceImpl = c.MissingOverrideForImpl
	}
	if meta.IsDefined("compiler", "max_diagnostics") {
		o.MaxDiagnostics = c.MaxDiagnostics
	}
	for key, value := range cfg.Problems {
		if err := o.SetSeverity(key, value); err != nil {
			return fmt.Errorf("%s: [problems]: %w", path, err)
		}
	}
	return nil
}
