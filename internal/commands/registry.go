package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry resolves command names and aliases to implementations. Commands
// self-register from init, so lookups only happen after package init is
// done; the lock exists for the tests that build private registries.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds a command under its name and all aliases. Any clash with
// an already-registered name is an error and nothing is added.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, name := range names {
		if _, taken := r.byName[name]; taken {
			return fmt.Errorf("command name taken: %s", name)
		}
	}
	for _, name := range names {
		r.byName[name] = c
	}
	return nil
}

// Find resolves a name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// All returns each registered command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	unique := make(map[string]Command)
	for _, c := range r.byName {
		unique[c.Name()] = c
	}

	all := make([]Command, 0, len(unique))
	for _, c := range unique {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// DefaultRegistry is the registry the command files register into.
var DefaultRegistry = NewRegistry()

// Register adds a command to DefaultRegistry, panicking on a name clash.
// Clashes are wiring mistakes, caught the first time the binary runs.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
