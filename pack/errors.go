package pack

import (
	"errors"
	"fmt"
	"strings"

	"curse-modpack/addon"
)

var (
	// ErrAlreadyInstalled is returned when installing a mod that is already explicit.
	ErrAlreadyInstalled = errors.New("mod is already installed")
	// ErrNoFileFound is returned when no file satisfies the game version and release constraints.
	ErrNoFileFound = errors.New("no available file found for mod")
	// ErrNotInstalled is returned when removing or upgrading a mod that is not installed.
	ErrNotInstalled = errors.New("mod is not installed")
	// ErrMissingDependency is returned by pools that lack a requested mod.
	ErrMissingDependency = errors.New("dependency not available")
	// ErrInvalidChange is returned for a FileChange with neither a source nor a destination.
	ErrInvalidChange = errors.New("invalid file change")
	// ErrLeftover is returned when a committed change could not discard the
	// old file it moved aside.
	ErrLeftover = errors.New("moved-aside file left behind")
	// ErrInvalidStream is matched by every descriptor validation failure.
	ErrInvalidStream = errors.New("invalid mod-pack data")
)

// WouldBreakDependencyError is returned when removing Culprit would leave
// installed mods without a required dependency.
type WouldBreakDependencyError struct {
	Culprit    addon.Mod
	Dependents []addon.Mod
}

func (e *WouldBreakDependencyError) Error() string {
	names := make([]string, len(e.Dependents))
	for i, m := range e.Dependents {
		names[i] = m.Name
	}
	return fmt.Sprintf("removing %s would break dependent mods: %s", e.Culprit.Name, strings.Join(names, ", "))
}

// FieldError describes one problem found in a mod-pack descriptor.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError reports a malformed descriptor. It matches ErrInvalidStream.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return "invalid mod-pack data:\n  " + strings.Join(lines, "\n  ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidStream
}

// ApplyError reports the change that stopped a batch. Changes before it
// stay committed.
type ApplyError struct {
	Committed int
	Change    FileChange
	Err       error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("change %d (%s) failed: %v", e.Committed+1, e.Change, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }
