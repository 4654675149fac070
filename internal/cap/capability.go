// Package cap defines the builtin command contract and the registry the
// shell dispatches builtins through.
package cap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/xhell/xhell/internal/rules"
)

// Tier represents the safety level of a builtin.
type Tier int

const (
	TierRead      Tier = iota // no side effects on the filesystem (xcat, xls, xsearch)
	TierWrite                 // creates or modifies files (xcp, xmv, xtouch, xtee)
	TierDangerous             // removes data (xrm)
)

func (t Tier) String() string {
	switch t {
	case TierRead:
		return "read"
	case TierWrite:
		return "write"
	case TierDangerous:
		return "dangerous"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier converts a string to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "read":
		return TierRead, nil
	case "write":
		return TierWrite, nil
	case "dangerous":
		return TierDangerous, nil
	default:
		return 0, fmt.Errorf("unknown tier: %q", s)
	}
}

// Capability is the interface every builtin implements.
type Capability interface {
	// Name returns the command name typed at the prompt.
	Name() string

	// Description returns a one-line summary for xhelp.
	Description() string

	// Usage returns the argument synopsis, without the name.
	Usage() string

	// Tier returns the safety classification.
	Tier() Tier

	// Validate checks args before execution. Called before Run.
	Validate(args []string) error

	// Run executes the builtin. It reads from stdin and writes to stdout.
	Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// ExitError carries a specific exit status out of a builtin. Any message has
// already been written to stderr by the builtin.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ErrQuit is returned by the quit builtin.
var ErrQuit = errors.New("quit requested")

// UsageError reports arguments a builtin cannot accept.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// Usagef returns a *UsageError.
func Usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// Status codes returned by Registry.Run besides a builtin's own ExitError.
const (
	StatusOK       = 0
	StatusError    = 1
	StatusUsage    = 2
	StatusNotFound = 127
)

// Registry maps builtin names to implementations and controls tier access.
type Registry struct {
	mu    sync.RWMutex
	caps  map[string]Capability
	tiers map[Tier]bool
	rules *rules.RuleSet
}

// NewRegistry creates a registry with every tier enabled and the hardcoded
// safety rules active.
func NewRegistry() *Registry {
	return &Registry{
		caps: make(map[string]Capability),
		tiers: map[Tier]bool{
			TierRead:      true,
			TierWrite:     true,
			TierDangerous: true,
		},
		rules: rules.Default(),
	}
}

// Register adds a builtin to the registry.
func (r *Registry) Register(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps[c.Name()] = c
}

// Lookup returns a builtin by name.
func (r *Registry) Lookup(name string) (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[name]
	if !ok {
		return nil, fmt.Errorf("unknown builtin: %q", name)
	}
	return c, nil
}

// IsBuiltin reports whether name is registered.
func (r *Registry) IsBuiltin(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.caps[name]
	return ok
}

// CheckTier returns an error if the given tier is not enabled.
func (r *Registry) CheckTier(t Tier) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.tiers[t] {
		return fmt.Errorf("tier %q is disabled", t)
	}
	return nil
}

// SetTier enables or disables a tier.
func (r *Registry) SetTier(t Tier, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[t] = enabled
}

// SetRules replaces the rule set.
func (r *Registry) SetRules(rs *rules.RuleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = rs
}

// CheckRules validates args against all rules for the named builtin.
func (r *Registry) CheckRules(name string, args []string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.rules == nil {
		return nil
	}
	return r.rules.Check(name, args)
}

// Run checks and runs the named builtin and maps the outcome to a status.
// Failures are reported on stderr as "name: message".
func (r *Registry) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c, err := r.Lookup(name)
	if err != nil {
		fmt.Fprintf(stderr, "%s: command not found\n", name)
		return StatusNotFound
	}
	if err := r.CheckTier(c.Tier()); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return StatusError
	}
	if err := r.CheckRules(name, args); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return StatusError
	}
	if err := c.Validate(args); err != nil {
		return usageStatus(c, err, stderr)
	}

	err = c.Run(NewContext(ctx, r), args, stdin, stdout, stderr)

	var exitErr *ExitError
	var usageErr *UsageError
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrQuit):
		RequestQuit(ctx)
		return StatusOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &usageErr):
		return usageStatus(c, err, stderr)
	default:
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return StatusError
	}
}

func usageStatus(c Capability, err error, stderr io.Writer) int {
	fmt.Fprintf(stderr, "%s: %v\n", c.Name(), err)
	if u := c.Usage(); u != "" {
		fmt.Fprintf(stderr, "usage: %s %s\n", c.Name(), u)
	}
	return StatusUsage
}

// All returns all registered builtins sorted by name.
func (r *Registry) All() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caps := make([]Capability, 0, len(r.caps))
	for _, c := range r.caps {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool {
		return caps[i].Name() < caps[j].Name()
	})
	return caps
}
