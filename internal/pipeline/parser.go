package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPipeline   = errors.New("empty pipeline")
	ErrMissingFilename = errors.New("missing filename")
)

// ParseError reports a line that cannot be turned into a Pipeline.
type ParseError struct {
	Stage int    // index of the offending stage
	Op    string // redirection operator missing its operand, if any
	Err   error
}

func (e *ParseError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%v after %s", e.Err, e.Op)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse splits line on | into stages and each stage into whitespace-delimited
// tokens, pulling out >, >> and 2> together with their filename operands.
// Segments that are empty after trimming are skipped. There is no quoting,
// escaping or expansion. Parse has no side effects.
func Parse(line string) (*Pipeline, error) {
	p := &Pipeline{}
	for _, seg := range strings.Split(line, OpPipe) {
		seg = strings.Trim(seg, " \t\r\n")
		if seg == "" {
			continue
		}
		cmd, err := parseStage(seg)
		if err != nil {
			err.Stage = len(p.Stages)
			return nil, err
		}
		p.Stages = append(p.Stages, cmd)
	}
	if len(p.Stages) == 0 {
		return nil, &ParseError{Err: ErrEmptyPipeline}
	}
	return p, nil
}

func parseStage(seg string) (Command, *ParseError) {
	tokens := strings.FieldsFunc(seg, func(r rune) bool {
		return r == ' ' || r == '\t'
	})

	var cmd Command
	for i := 0; i < len(tokens); i++ {
		switch tok := tokens[i]; tok {
		case OpRedirectOut, OpAppendOut, OpRedirectErr:
			if i+1 >= len(tokens) {
				return Command{}, &ParseError{Op: tok, Err: ErrMissingFilename}
			}
			i++
			switch tok {
			case OpRedirectOut:
				cmd.Output = &OutputTarget{Path: tokens[i], Mode: Truncate}
			case OpAppendOut:
				cmd.Output = &OutputTarget{Path: tokens[i], Mode: Append}
			case OpRedirectErr:
				cmd.ErrorPath = tokens[i]
			}
		default:
			cmd.Args = append(cmd.Args, tok)
		}
	}
	return cmd, nil
}
