package snapshot

import "fmt"

// Op names the filesystem operation an IOFailure happened in.
type Op string

const (
	OpWalk    Op = "walk"
	OpCompare Op = "compare"
	OpWipe    Op = "wipe"
	OpCopy    Op = "copy"
	OpDelete  Op = "delete"
	OpReplace Op = "replace"
	OpStage   Op = "stage"
	OpCommit  Op = "commit"
)

// UsageError reports an invocation that cannot be run as given. Nothing on
// disk has been touched when it is returned.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// NotFoundError reports a snapshot root that does not exist.
type NotFoundError struct {
	// Role describes the root for diagnostics, e.g. "previous version"
	Role string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("%s does not exist", e.Path)
	}
	return fmt.Sprintf("the %s does not exist: %s", e.Role, e.Path)
}

// NotADirectoryError reports a snapshot root that is not a directory.
type NotADirectoryError struct {
	Role string
	Path string
}

func (e *NotADirectoryError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("%s is not a directory", e.Path)
	}
	return fmt.Sprintf("the %s is not a directory: %s", e.Role, e.Path)
}

// IOFailure wraps an I/O error hit while cataloging, comparing or
// materializing. Path is relative to the snapshot root when one applies.
type IOFailure struct {
	Op   Op
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}

func ioFailure(op Op, path string, err error) error {
	return &IOFailure{Op: op, Path: path, Err: err}
}
