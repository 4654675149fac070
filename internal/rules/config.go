package rules

import (
	"fmt"
	"path/filepath"
)

// BuiltinRuleConfig is one builtin's rules from the YAML config.
type BuiltinRuleConfig struct {
	RejectFlags []string `yaml:"reject_flags"`
	RejectPaths []string `yaml:"reject_paths"`
}

// Compile turns a single builtin's config into CheckFuncs.
func Compile(name string, cfg BuiltinRuleConfig) []CheckFunc {
	var fns []CheckFunc

	if len(cfg.RejectFlags) > 0 {
		flags := cfg.RejectFlags
		fns = append(fns, func(n string, args []string) error {
			if n != name {
				return nil
			}
			if hasAnyFlag(args, flags...) {
				return fmt.Errorf("%w: flag not allowed by config (one of %v)", ErrRejected, flags)
			}
			return nil
		})
	}

	if len(cfg.RejectPaths) > 0 {
		paths := make(map[string]bool, len(cfg.RejectPaths))
		for _, p := range cfg.RejectPaths {
			paths[filepath.Clean(p)] = true
		}
		fns = append(fns, func(n string, args []string) error {
			if n != name {
				return nil
			}
			for _, arg := range operands(args) {
				if paths[filepath.Clean(arg)] {
					return fmt.Errorf("%w: %q is protected by config", ErrRejected, arg)
				}
			}
			return nil
		})
	}

	return fns
}

// FromConfig builds a RuleSet with the hardcoded rules followed by the
// compiled rules for each configured builtin.
func FromConfig(cfg map[string]BuiltinRuleConfig) *RuleSet {
	rs := Default()
	for name, c := range cfg {
		for _, fn := range Compile(name, c) {
			rs.AddConfig(fn)
		}
	}
	return rs
}
