package builtin

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/xhell/xhell/internal/cap"
)

// Calc evaluates "n1 op n2" for + - * /, printing the result to two decimal
// places. Any argument list not of that form, with two numeric operands, is
// evaluated as one arithmetic expression.
type Calc struct{}

var _ cap.Capability = (*Calc)(nil)

func (c *Calc) Name() string                 { return "xcalc" }
func (c *Calc) Description() string          { return "simple calculator" }
func (c *Calc) Usage() string                { return "num1 op num2" }
func (c *Calc) Tier() cap.Tier               { return cap.TierRead }
func (c *Calc) Validate(args []string) error { return nil }

var calcOps = map[string]syntax.Token{
	"+": syntax.PLUS,
	"-": syntax.MINUS,
	"*": syntax.STAR,
	"/": syntax.SLASH,
}

const maxCalcSteps = 100000

func (c *Calc) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stdout, "Usage: xcalc <num1> <op> <num2>")
		fmt.Fprintln(stdout, "Example: xcalc 10 + 20")
		return nil
	}
	x, y, ok := calcOperands(args)
	if !ok {
		return c.eval(ctx, strings.Join(args, " "), stdout)
	}

	op, ok := calcOps[args[1]]
	if !ok {
		fmt.Fprintf(stdout, "Error: Unknown operator '%s'\n", args[1])
		return &cap.ExitError{Code: 1}
	}
	if op == syntax.SLASH && y == 0 {
		fmt.Fprintln(stdout, "Error: Div by zero")
		return &cap.ExitError{Code: 1}
	}

	v, err := starlark.Binary(op, starlark.Float(x), starlark.Float(y))
	if err != nil {
		return err
	}
	return printNumber(stdout, v)
}

// calcOperands parses the operands of the "n1 op n2" form. It reports false
// when args has another shape, so "xcalc (1+2) * 3" goes to eval.
func calcOperands(args []string) (x, y float64, ok bool) {
	if len(args) != 3 {
		return 0, 0, false
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, false
	}
	y, err = strconv.ParseFloat(args[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// eval runs expr through the starlark expression evaluator with a step
// budget. Arguments are joined with spaces first.
func (c *Calc) eval(ctx context.Context, expr string, stdout io.Writer) error {
	thread := &starlark.Thread{Name: "xcalc"}
	thread.SetMaxExecutionSteps(maxCalcSteps)
	stop := context.AfterFunc(ctx, func() { thread.Cancel("interrupted") })
	defer stop()

	v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "xcalc", expr, nil)
	if err != nil {
		if strings.Contains(err.Error(), "division by zero") {
			fmt.Fprintln(stdout, "Error: Div by zero")
			return &cap.ExitError{Code: 1}
		}
		return err
	}
	return printNumber(stdout, v)
}

func printNumber(w io.Writer, v starlark.Value) error {
	switch v := v.(type) {
	case starlark.Float:
		_, err := fmt.Fprintf(w, "%.2f\n", float64(v))
		return err
	case starlark.Int:
		_, err := fmt.Fprintf(w, "%.2f\n", float64(v.Float()))
		return err
	default:
		return fmt.Errorf("not a number: %s", v.Type())
	}
}
