package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProject marks a project name rejected by ValidateProject.
var ErrInvalidProject = errors.New("invalid project name")

// ValidateProject rejects project names that are unsafe to use as a storage
// path component. Backends use the name verbatim, so callers at the API and
// CLI boundary must check it first.
func ValidateProject(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProject)
	case name == "." || name == ".." || strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidProject, name)
	case strings.ContainsAny(name, `/\:`+"\x00"):
		return fmt.Errorf("%w: %q: path separators are not allowed", ErrInvalidProject, name)
	}
	return nil
}
