// Package rules holds the argument checks run before a builtin executes.
package rules

import (
	"errors"
	"strings"
)

// ErrRejected is wrapped by every error a rule returns.
var ErrRejected = errors.New("rejected")

// CheckFunc validates arguments for a named builtin.
// Returns a non-nil error to block execution.
type CheckFunc func(name string, args []string) error

// RuleSet holds an ordered list of validation rules. Hardcoded rules run first
// and cannot be removed. Config rules are appended after.
type RuleSet struct {
	hardcoded []CheckFunc
	config    []CheckFunc
}

// NewRuleSet creates a RuleSet with the given hardcoded rules.
func NewRuleSet(hardcoded ...CheckFunc) *RuleSet {
	return &RuleSet{hardcoded: hardcoded}
}

// Default returns a RuleSet carrying only the hardcoded rules.
func Default() *RuleSet {
	return NewRuleSet(Hardcoded()...)
}

// AddConfig appends a config-driven rule.
func (rs *RuleSet) AddConfig(fn CheckFunc) {
	rs.config = append(rs.config, fn)
}

// Check runs every rule against the builtin name and args, hardcoded rules
// first, and returns the first rejection.
func (rs *RuleSet) Check(name string, args []string) error {
	for _, fn := range rs.hardcoded {
		if err := fn(name, args); err != nil {
			return err
		}
	}
	for _, fn := range rs.config {
		if err := fn(name, args); err != nil {
			return err
		}
	}
	return nil
}

// hasAnyFlag reports whether any element of args matches one of flags:
//   - exact: "-f" matches "-f"
//   - combined short flags: "-rf" matches "-r" and "-f"
//   - short flag with value: "-n5" matches "-n"
//   - long flag with =: "--all=yes" matches "--all"
//
// Arguments after "--" are operands, not flags.
func hasAnyFlag(args []string, flags ...string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if len(arg) < 2 || arg[0] != '-' {
			continue
		}
		for _, flag := range flags {
			if arg == flag {
				return true
			}
			if isShort(flag) && isShort(arg[:2]) && strings.ContainsRune(arg[1:], rune(flag[1])) {
				return true
			}
			if strings.HasPrefix(flag, "--") && strings.HasPrefix(arg, flag+"=") {
				return true
			}
		}
	}
	return false
}

func isShort(flag string) bool {
	return len(flag) == 2 && flag[0] == '-' && flag[1] != '-'
}

// operands returns the non-flag arguments.
func operands(args []string) []string {
	var out []string
	flags := true
	for _, arg := range args {
		if flags && arg == "--" {
			flags = false
			continue
		}
		if flags && len(arg) > 1 && arg[0] == '-' {
			continue
		}
		out = append(out, arg)
	}
	return out
}
