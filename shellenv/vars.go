package shellenv

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/coveshell/cove/completion"
)

// Vars holds the session's variables. It is safe for concurrent use; the
// interactive loop writes while the completion engine reads.
type Vars struct {
	mu     sync.RWMutex
	values map[string]any
}

var _ completion.VariableSource = (*Vars)(nil)

// NewVars creates an empty variable table with the standard automatic
// variables preset.
func NewVars() *Vars {
	v := &Vars{values: map[string]any{}}

	if home, err := os.UserHomeDir(); err == nil {
		v.values["home"] = home
	}
	if cwd, err := os.Getwd(); err == nil {
		v.values["pwd"] = cwd
	}
	v.values["host"] = hostName()

	return v
}

func hostName() string {
	h, err := os.Hostname()
	if err != nil {
		return "cove"
	}

	return h
}

// Set assigns a variable. Names are case-insensitive and stored lowercase.
func (v *Vars) Set(name string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.values[strings.ToLower(name)] = value
}

// Get looks up a variable by name.
func (v *Vars) Get(name string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	val, ok := v.values[strings.ToLower(name)]

	return val, ok
}

// Unset removes a variable. Removing an absent name is a no-op.
func (v *Vars) Unset(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.values, strings.ToLower(name))
}

// Snapshot returns a copy of the table keyed by name.
func (v *Vars) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make(map[string]any, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}

	return out
}

// Variables lists the session variables sorted by name.
func (v *Vars) Variables() []completion.VariableInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]completion.VariableInfo, 0, len(v.values))
	for name, val := range v.values {
		out = append(out, completion.VariableInfo{Name: name, Value: val})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
