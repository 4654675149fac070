package pipeline

import (
	"fmt"
	"os"
)

// newPipe is replaced in tests to simulate descriptor exhaustion.
var newPipe = os.Pipe

// pipeSet holds the n-1 pipes connecting n stages. Pipe i carries stage i's
// output to stage i+1's input.
type pipeSet struct {
	r, w []*os.File
}

// openPipes creates n pipes. If any creation fails, the pipes already made
// are closed before returning.
func openPipes(n int) (*pipeSet, error) {
	ps := &pipeSet{r: make([]*os.File, n), w: make([]*os.File, n)}
	for i := 0; i < n; i++ {
		r, w, err := newPipe()
		if err != nil {
			ps.Close()
			return nil, fmt.Errorf("pipe %d: %w", i, err)
		}
		ps.r[i], ps.w[i] = r, w
	}
	return ps, nil
}

// stdin returns the input for stage i: the read end of pipe i-1, or the
// process's own stdin for the first stage.
func (ps *pipeSet) stdin(i int) *os.File {
	if i == 0 {
		return os.Stdin
	}
	return ps.r[i-1]
}

// stdout returns the output for stage i of n: the write end of pipe i, or
// the process's own stdout for the last stage.
func (ps *pipeSet) stdout(i, n int) *os.File {
	if i == n-1 {
		return os.Stdout
	}
	return ps.w[i]
}

// Close closes every pipe end still open. Safe to call more than once.
func (ps *pipeSet) Close() {
	for i := range ps.r {
		if ps.r[i] != nil {
			ps.r[i].Close()
			ps.r[i] = nil
		}
		if ps.w[i] != nil {
			ps.w[i].Close()
			ps.w[i] = nil
		}
	}
}
