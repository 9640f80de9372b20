package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/completion"
)

// moduleExt is the file extension of cove module files, without the dot.
const moduleExt = "cove"

// Module is one discovered module file and what it declares.
type Module struct {
	Name string
	Path string

	Commands []*cove.CommandInfo
	Classes  []ClassDecl
}

// Loader discovers module files under a set of root directories and exposes
// their declarations to binding and completion. It is safe for concurrent
// use; Load replaces the whole view atomically under the lock.
type Loader struct {
	roots []string

	mu      sync.RWMutex
	modules []Module
	classes map[string]ClassDecl
}

var (
	_ completion.ModuleSource = (*Loader)(nil)
	_ completion.TypeSource   = (*Loader)(nil)
)

// NewLoader creates a loader over the given root directories. Roots that do
// not exist are skipped at load time.
func NewLoader(roots []string) *Loader {
	return &Loader{roots: roots, classes: map[string]ClassDecl{}}
}

// Load rescans the roots and replaces the loaded module set. Files that
// fail to read or parse are skipped; the first such error is returned after
// the scan completes so partial results remain usable.
func (l *Loader) Load() error {
	var (
		modules  []Module
		firstErr error
	)

	for _, root := range l.roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}

		files, err := discover(root)
		if err != nil && firstErr == nil {
			firstErr = err
		}

		for _, path := range files {
			mod, err := loadFile(path)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}

				continue
			}

			modules = append(modules, mod)
		}
	}

	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	classes := map[string]ClassDecl{}
	for _, m := range modules {
		for _, cls := range m.Classes {
			classes[strings.ToLower(cls.FullName)] = cls
		}
	}

	l.mu.Lock()
	l.modules = modules
	l.classes = classes
	l.mu.Unlock()

	return firstErr
}

// discover walks one root for module files.
func discover(root string) ([]string, error) {
	queue := make(chan *gocodewalker.File, 100) //nolint:mnd // walker buffer

	walker := gocodewalker.NewFileWalker(root, queue)
	walker.AllowListExtensions = []string{moduleExt}

	var walkErr error
	walker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var (
		wg    sync.WaitGroup
		files []string
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range queue {
			files = append(files, f.Location)
		}
	}()

	if err := walker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()
	sort.Strings(files)

	return files, walkErr
}

// loadFile parses one module file and extracts its declarations.
func loadFile(path string) (Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Module{}, fmt.Errorf("read module: %w", err)
	}

	script, err := cove.Parse(content)
	if err != nil {
		return Module{}, fmt.Errorf("parse module %s: %w", path, err)
	}

	decls := extractDecls(script)
	name := strings.TrimSuffix(filepath.Base(path), "."+moduleExt)

	return Module{
		Name:     name,
		Path:     path,
		Commands: decls.commands,
		Classes:  decls.classes,
	}, nil
}

// Modules lists the loaded modules, sorted by name.
func (l *Loader) Modules() []completion.ModuleInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]completion.ModuleInfo, 0, len(l.modules))
	for _, m := range l.modules {
		out = append(out, completion.ModuleInfo{Name: m.Name, Path: m.Path})
	}

	return out
}

// RegisterCommands adds every loaded command declaration to the catalog.
func (l *Loader) RegisterCommands(cat *cove.Catalog) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, m := range l.modules {
		for _, info := range m.Commands {
			cat.Register(info)
		}
	}
}

// TypeEntries reports every loaded class plus the namespaces implied by
// their dotted names.
func (l *Loader) TypeEntries() []completion.TypeEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var entries []completion.TypeEntry

	namespaces := map[string]bool{}

	for _, cls := range l.classes {
		entries = append(entries, completion.TypeEntry{
			FullName: cls.FullName,
			Kind:     completion.TypeEntryConcrete,
		})

		name := cls.FullName
		for {
			i := strings.LastIndexByte(name, '.')
			if i < 0 {
				break
			}

			name = name[:i]
			namespaces[name] = true
		}
	}

	for ns := range namespaces {
		entries = append(entries, completion.TypeEntry{
			FullName: ns,
			Kind:     completion.TypeEntryNamespace,
		})
	}

	return entries
}

// ClassMembers resolves the declared members of a loaded class, matching
// the completion engine's ClassMembers hook.
func (l *Loader) ClassMembers(typeName string) []completion.Member {
	l.mu.RLock()
	cls, ok := l.classes[strings.ToLower(typeName)]
	l.mu.RUnlock()

	if !ok {
		// A bare name can still refer to a namespaced class.
		return l.shortNameMembers(typeName)
	}

	return memberList(cls)
}

func (l *Loader) shortNameMembers(typeName string) []completion.Member {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lower := strings.ToLower(typeName)

	for full, cls := range l.classes {
		if i := strings.LastIndexByte(full, '.'); i >= 0 && full[i+1:] == lower {
			return memberList(cls)
		}
	}

	return nil
}

func memberList(cls ClassDecl) []completion.Member {
	out := make([]completion.Member, 0, len(cls.Members))

	for _, m := range cls.Members {
		sig := m.Signature
		if sig == "" && m.Type != "" {
			sig = m.Name + ": " + m.Type
		}

		out = append(out, completion.ClassMember{
			Name:      m.Name,
			Method:    m.Method,
			Hidden:    m.Hidden,
			Signature: sig,
		})
	}

	return out
}
