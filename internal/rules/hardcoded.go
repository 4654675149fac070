package rules

import (
	"fmt"
	"path/filepath"
)

// Hardcoded returns the safety rules that are always enforced regardless of
// configuration.
func Hardcoded() []CheckFunc {
	return []CheckFunc{
		checkRemoveCatastrophic,
		checkSameSourceAndDest,
	}
}

// checkRemoveCatastrophic blocks recursive removal of the root, home, current
// or parent directory.
func checkRemoveCatastrophic(name string, args []string) error {
	if name != "xrm" || !hasAnyFlag(args, "-r", "-R", "--recursive") {
		return nil
	}
	for _, arg := range operands(args) {
		switch filepath.Clean(arg) {
		case "/", ".", "..", "~":
			return fmt.Errorf("%w: refusing to recursively remove %q", ErrRejected, arg)
		}
	}
	return nil
}

// checkSameSourceAndDest blocks copying or moving a path onto itself, which
// would truncate the source before it is read.
func checkSameSourceAndDest(name string, args []string) error {
	if name != "xcp" && name != "xmv" {
		return nil
	}
	ops := operands(args)
	if len(ops) != 2 {
		return nil
	}
	if filepath.Clean(ops[0]) == filepath.Clean(ops[1]) {
		return fmt.Errorf("%w: %q and %q are the same file", ErrRejected, ops[0], ops[1])
	}
	return nil
}
