// Package shellenv backs the completion engine's collaborator interfaces
// with the real shell session: the file system, session variables, command
// history and live processes.
package shellenv

import (
	"os"
	"strings"

	"github.com/coveshell/cove/completion"
)

// FS is the operating system file system as a completion path provider.
type FS struct{}

var _ completion.PathProvider = FS{}

// Home returns the current user's home directory, or "" when unknown.
func (FS) Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return home
}

// Cwd returns the process working directory, or "" when unknown.
func (FS) Cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	return cwd
}

// List enumerates the children of dir. Dotfiles are reported as hidden.
func (FS) List(dir string) ([]completion.PathEntry, error) {
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := make([]completion.PathEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, completion.PathEntry{
			Name:   e.Name(),
			Dir:    e.IsDir(),
			Hidden: strings.HasPrefix(e.Name(), "."),
		})
	}

	return out, nil
}
