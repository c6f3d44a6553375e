// Package project loads the optional HCL project manifest. The manifest
// declares defaults (artifact output directory, extra code paths, compiler
// options) that explicit command-line flags override.
package project

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/psantos10/elixir/internal/cli"
	"github.com/psantos10/elixir/internal/codepath"
)

// Manifest is the decoded project file. Option fields are nil when the
// manifest does not mention them.
type Manifest struct {
	Output    string
	LoadPaths []string

	Docs                 *bool
	DebugInfo            *bool
	IgnoreModuleConflict *bool
}

// manifestHCL mirrors the manifest file structure for gohcl.
type manifestHCL struct {
	Output    *string     `hcl:"output"`
	LoadPaths []string    `hcl:"load_paths,optional"`
	Options   *optionsHCL `hcl:"compiler_options,block"`
	Remain    hcl.Body    `hcl:",remain"`
}

// optionsHCL keeps the block body raw so option names can be validated one
// by one instead of silently dropping typos.
type optionsHCL struct {
	Body hcl.Body `hcl:",remain"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read project manifest: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes manifest source. The filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("could not parse project manifest: %w", diags)
	}

	var raw manifestHCL
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("invalid project manifest: %w", diags)
	}

	m := &Manifest{LoadPaths: raw.LoadPaths}
	if raw.Output != nil {
		m.Output = *raw.Output
	}
	if raw.Options != nil {
		if err := m.decodeOptions(raw.Options.Body); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// decodeOptions evaluates each attribute of the compiler_options block as a
// boolean cty value.
func (m *Manifest) decodeOptions(body hcl.Body) error {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("invalid compiler_options block: %w", diags)
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("invalid value for compiler option %q: %w", name, diags)
		}
		val, err := convert.Convert(val, cty.Bool)
		if err != nil {
			return fmt.Errorf("compiler option %q must be a boolean: %w", name, err)
		}
		b := val.True()

		switch name {
		case "docs":
			m.Docs = &b
		case "debug_info":
			m.DebugInfo = &b
		case "ignore_module_conflict":
			m.IgnoreModuleConflict = &b
		default:
			return fmt.Errorf("unsupported compiler option %q", name)
		}
	}
	return nil
}

// Apply folds the manifest into an already-parsed configuration. Flags beat
// the manifest: values the command line pinned are left alone.
func (m *Manifest) Apply(cfg *cli.Config, loadPath *codepath.Path) {
	if m.Output != "" && !cfg.OutputSet {
		cfg.Output = m.Output
	}
	if loadPath != nil {
		loadPath.Append(m.LoadPaths...)
	}

	// The flags for these options only ever move them off their defaults,
	// so a still-default value means the manifest may decide.
	if m.Docs != nil && cfg.CompilerOptions.Docs {
		cfg.CompilerOptions.Docs = *m.Docs
	}
	if m.DebugInfo != nil && cfg.CompilerOptions.DebugInfo {
		cfg.CompilerOptions.DebugInfo = *m.DebugInfo
	}
	if m.IgnoreModuleConflict != nil && !cfg.CompilerOptions.IgnoreModuleConflict {
		cfg.CompilerOptions.IgnoreModuleConflict = *m.IgnoreModuleConflict
	}
}
