//go:build linux

package pipeline

import "golang.org/x/sys/unix"

// dup2 makes newfd refer to the open file description behind oldfd. Linux
// ports such as arm64 only provide dup3, which rejects oldfd == newfd.
func dup2(oldfd, newfd int) error {
	if oldfd == newfd {
		return nil
	}
	return unix.Dup3(oldfd, newfd, 0)
}
