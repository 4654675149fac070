// Package mcpserver exposes xhell to MCP clients over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sys/unix"

	"github.com/xhell/xhell/internal/cap"
	"github.com/xhell/xhell/internal/journal"
)

// Result is what run_command returns, encoded as JSON text.
type Result struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Status int    `json:"status"`
}

// Server runs command lines for MCP clients. Each line runs in a child
// "Self -c line" process, since stdio carries the protocol.
type Server struct {
	// Self is the xhell binary. Empty means os.Executable.
	Self string

	Registry    *cap.Registry
	JournalPath string
	Version     string
}

// New returns the MCP server with its tools registered.
func (s *Server) New() *server.MCPServer {
	srv := server.NewMCPServer("xhell", s.Version, server.WithToolCapabilities(false))

	srv.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription("Run one xhell command line. Stages are joined with |, and "+
			"stdout may be redirected with >, >> and stderr with 2>. Builtins start with x; "+
			"any other name runs the program found on PATH. There is no quoting."),
		mcp.WithString("line", mcp.Required(), mcp.Description("the command line")),
	), s.runCommand)

	srv.AddTool(mcp.NewTool("list_builtins",
		mcp.WithDescription("List xhell builtins with their safety tier and synopsis."),
	), s.listBuiltins)

	if s.JournalPath != "" {
		srv.AddTool(mcp.NewTool("read_journal",
			mcp.WithDescription("Show the most recent entries of the xhell command journal."),
			mcp.WithNumber("n", mcp.Description("number of entries, default 20")),
		), s.readJournal)
	}
	return srv
}

// Serve serves MCP on stdin and stdout until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.New())
}

func (s *Server) runCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := req.RequireString("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.Run(ctx, line)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// waitDelay bounds how long Run waits for output after the child is killed.
const waitDelay = 2 * time.Second

// Run executes line in a child process with captured output. A status of -1
// means the child was killed by a signal. The child leads its own process
// group; cancelling ctx kills the whole group, pipeline stages included.
func (s *Server) Run(ctx context.Context, line string) (*Result, error) {
	self := s.Self
	if self == "" {
		var err error
		if self, err = os.Executable(); err != nil {
			return nil, fmt.Errorf("locate xhell binary: %w", err)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, self, "-c", line)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = waitDelay
	err := cmd.Run()

	// After cancellation Run reports ctx.Err or ErrWaitDelay, but the child
	// was still reaped and its status is meaningful.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && (cmd.ProcessState == nil || ctx.Err() == nil) {
		return nil, fmt.Errorf("run %q: %w", line, err)
	}
	return &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Status: cmd.ProcessState.ExitCode(),
	}, nil
}

func (s *Server) listBuiltins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	for _, c := range s.Registry.All() {
		fmt.Fprintf(&buf, "%-12s %-10s %s\n", c.Name(), c.Tier(), strings.TrimSpace(c.Name()+" "+c.Usage()))
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) readJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := journal.Tail(s.JournalPath, req.GetInt("n", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintln(&buf, e.Format())
	}
	return mcp.NewToolResultText(buf.String()), nil
}
