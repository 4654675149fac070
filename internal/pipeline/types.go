package pipeline

import "fmt"

// Operators recognised by the parser. They only count as operators when they
// stand alone as a whitespace-delimited token: "a>b" is a plain argument.
const (
	OpPipe        = "|"
	OpRedirectOut = ">"  // stdout to file, truncate
	OpAppendOut   = ">>" // stdout to file, append
	OpRedirectErr = "2>" // stderr to file, truncate
)

// Statuses reported by Execute in addition to a program's own exit code.
const (
	StatusNotFound = 127 // no builtin and no executable on the search path
	StatusFailure  = -1  // redirection, launch or signal failure; never a real exit code
)

// OutputMode selects how an output redirection opens its target.
type OutputMode int

const (
	Truncate OutputMode = iota
	Append
)

func (m OutputMode) String() string {
	switch m {
	case Truncate:
		return "truncate"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name for the stage handoff payload.
func (m OutputMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *OutputMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "truncate":
		*m = Truncate
	case "append":
		*m = Append
	default:
		return fmt.Errorf("unknown output mode: %q", b)
	}
	return nil
}

// OutputTarget is a stdout redirection.
type OutputTarget struct {
	Path string     `json:"path"`
	Mode OutputMode `json:"mode"`
}

// Command is one stage of a pipeline.
type Command struct {
	Args      []string      `json:"args"`                 // Args[0] is the command name
	Output    *OutputTarget `json:"output,omitempty"`     // stdout redirection, nil if none
	ErrorPath string        `json:"error_path,omitempty"` // stderr redirection (always truncate), empty if none
	Input     string        `json:"input,omitempty"`      // stdin redirection; never set by Parse
}

// Name returns the command name, or "" for a stage with no arguments.
func (c *Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Pipeline is a parsed command line: its stages in left-to-right pipe order.
type Pipeline struct {
	Stages []Command
}

// Names returns the command name of each stage.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.Stages))
	for i := range p.Stages {
		names[i] = p.Stages[i].Name()
	}
	return names
}
