package ledger

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrLocked marks a write refused by the OS, typically because the ledger is
// open in a spreadsheet.
var ErrLocked = errors.New("ledger: file locked or not writable")

// PersistenceError reports a write that was aborted. The file on disk still
// holds its previous content.
type PersistenceError struct {
	Op   string // "append", "create", "rewrite"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// MigrationError reports a schema migration that could not complete. The
// pending append is abandoned so no row is written against an ambiguous
// header.
type MigrationError struct {
	Path   string
	Column string
	Err    error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("ledger migrate %s (add %q): %v", e.Path, e.Column, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// StructuralError reports a ledger that cannot be read as a table at all.
type StructuralError struct {
	Path string
	Line int
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ledger %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("ledger %s: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

func persistenceError(op, path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		err = fmt.Errorf("%w: %w", ErrLocked, err)
	}
	return &PersistenceError{Op: op, Path: path, Err: err}
}
