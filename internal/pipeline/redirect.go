package pipeline

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// RedirectError reports a redirection target that could not be opened or
// bound to its standard stream.
type RedirectError struct {
	Path string
	Err  error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirection: %s: %v", e.Path, e.Err)
}

func (e *RedirectError) Unwrap() error { return e.Err }

// Redirect opens the targets named by cmd and duplicates them onto the
// process's standard stream slots (fds 0, 1 and 2). Rebinding the slots
// rather than os.Stdout means in-process builtins and every child started
// afterwards observe the same redirection. If the output target fails,
// stderr is left untouched.
func Redirect(cmd *Command) error {
	if cmd.Input != "" {
		if err := rebind(cmd.Input, os.O_RDONLY, unix.Stdin); err != nil {
			return err
		}
	}
	if out := cmd.Output; out != nil {
		flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if out.Mode == Append {
			flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		if err := rebind(out.Path, flag, unix.Stdout); err != nil {
			return err
		}
	}
	if cmd.ErrorPath != "" {
		if err := rebind(cmd.ErrorPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, unix.Stderr); err != nil {
			return err
		}
	}
	return nil
}

func rebind(path string, flag, slot int) error {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return &RedirectError{Path: path, Err: err}
	}
	defer f.Close()
	if err := dup2(int(f.Fd()), slot); err != nil {
		return &RedirectError{Path: path, Err: fmt.Errorf("dup2: %w", err)}
	}
	return nil
}

// SavedStreams holds close-on-exec copies of the process's fds 0, 1 and 2.
type SavedStreams struct {
	fds [3]int
}

// SaveStreams duplicates the standard stream slots so they can be put back
// after a redirection. A slot that is not open is skipped, and Restore
// leaves it alone.
func SaveStreams() (*SavedStreams, error) {
	s := &SavedStreams{fds: [3]int{-1, -1, -1}}
	for slot := range s.fds {
		fd, err := unix.FcntlInt(uintptr(slot), unix.F_DUPFD_CLOEXEC, 0)
		if errors.Is(err, unix.EBADF) {
			continue
		}
		if err != nil {
			s.release()
			return nil, fmt.Errorf("save fd %d: %w", slot, err)
		}
		s.fds[slot] = fd
	}
	return s, nil
}

// Restore duplicates each saved descriptor back onto its slot and closes the
// copy. It is safe to call more than once.
func (s *SavedStreams) Restore() error {
	if s == nil {
		return nil
	}
	var errs []error
	for slot, fd := range s.fds {
		if fd < 0 {
			continue
		}
		if err := dup2(fd, slot); err != nil {
			errs = append(errs, fmt.Errorf("restore fd %d: %w", slot, err))
		}
	}
	s.release()
	return errors.Join(errs...)
}

func (s *SavedStreams) release() {
	for slot, fd := range s.fds {
		if fd >= 0 {
			unix.Close(fd)
			s.fds[slot] = -1
		}
	}
}
