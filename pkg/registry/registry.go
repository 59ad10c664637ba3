// Package registry provides the command registry: a mapping from command name to its
// descriptor that keeps registration order for help and introspection.
//
// Each interpreter owns its own Registry; there is no process-wide instance.
package registry

import (
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"cmdshell/internal/logger"
	"cmdshell/pkg/shelltypes"
)

// View is the read-only side of a Registry. Built-in commands that enumerate the
// registry they belong to receive a View rather than the Registry itself.
type View interface {
	Lookup(name string) (*shelltypes.Descriptor, error)
	Has(name string) bool
	List() iter.Seq[*shelltypes.Descriptor]
	Names() []string
}

// Registry manages command registration and lookup.
// The case-sensitivity policy is fixed when the registry is created.
type Registry struct {
	mu              sync.RWMutex
	caseInsensitive bool
	commands        map[string]*shelltypes.Descriptor
	aliases         map[string]string
	order           []string
	logger          *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// CaseInsensitive makes names and aliases match regardless of case.
func CaseInsensitive() Option {
	return func(r *Registry) {
		r.caseInsensitive = true
	}
}

// WithLogger sets the logger used for registration events.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty registry. Names are case-sensitive unless CaseInsensitive is given.
func New(options ...Option) *Registry {
	r := &Registry{
		commands: make(map[string]*shelltypes.Descriptor),
		aliases:  make(map[string]string),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.NewStyledLogger("Registry")
	}
	return r
}

// IsCaseInsensitive reports the registry's case policy.
func (r *Registry) IsCaseInsensitive() bool {
	return r.caseInsensitive
}

func (r *Registry) key(name string) string {
	if r.caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// resolve maps a name or alias to the primary key. Callers hold r.mu.
func (r *Registry) resolve(name string) (string, bool) {
	k := r.key(name)
	if _, ok := r.commands[k]; ok {
		return k, true
	}
	if primary, ok := r.aliases[k]; ok {
		return primary, true
	}
	return "", false
}

// Register validates and adds a copy of the descriptor. It fails with a
// *shelltypes.DuplicateCommandError when the name or one of its aliases is taken, and
// with shelltypes.ErrInvalidDescriptor when the descriptor is malformed.
func (r *Registry) Register(d *shelltypes.Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", shelltypes.ErrInvalidDescriptor)
	}
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{d.Name}, d.Aliases...)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		k := r.key(name)
		if _, taken := r.resolve(name); taken || seen[k] {
			return &shelltypes.DuplicateCommandError{Name: name}
		}
		seen[k] = true
	}

	stored := d.Clone()
	primary := r.key(stored.Name)
	r.commands[primary] = stored
	for _, alias := range stored.Aliases {
		r.aliases[r.key(alias)] = primary
	}
	r.order = append(r.order, primary)

	r.logger.Debug("Registered command", "command", stored.Name, "params", len(stored.Params))
	return nil
}

// MustRegister is like Register but panics on error. It is meant for wiring built-in
// command sets whose descriptors are fixed at compile time.
func (r *Registry) MustRegister(d *shelltypes.Descriptor) {
	if err := r.Register(d); err != nil {
		panic(fmt.Sprintf("failed to register %s command: %v", d.Name, err))
	}
}

// Unregister removes a command and its aliases. Aliases cannot be used to unregister.
// It fails with a *shelltypes.UnknownCommandError when the command is not registered.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	primary := r.key(name)
	d, ok := r.commands[primary]
	if !ok {
		return &shelltypes.UnknownCommandError{Name: name}
	}

	delete(r.commands, primary)
	for _, alias := range d.Aliases {
		delete(r.aliases, r.key(alias))
	}
	for i, k := range r.order {
		if k == primary {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Debug("Unregistered command", "command", d.Name)
	return nil
}

// Lookup returns a copy of the descriptor registered under name or one of its aliases.
// It fails with a *shelltypes.UnknownCommandError when nothing matches.
func (r *Registry) Lookup(name string) (*shelltypes.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	primary, ok := r.resolve(name)
	if !ok {
		return nil, &shelltypes.UnknownCommandError{Name: name}
	}
	return r.commands[primary].Clone(), nil
}

// Has reports whether name or an alias is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.resolve(name)
	return ok
}

// Len returns the number of registered commands, not counting aliases.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// List returns a lazy sequence of descriptor copies in registration order.
// Each iteration takes a fresh snapshot, so the sequence can be ranged over repeatedly.
func (r *Registry) List() iter.Seq[*shelltypes.Descriptor] {
	return func(yield func(*shelltypes.Descriptor) bool) {
		r.mu.RLock()
		snapshot := make([]*shelltypes.Descriptor, 0, len(r.order))
		for _, k := range r.order {
			snapshot = append(snapshot, r.commands[k])
		}
		r.mu.RUnlock()

		for _, d := range snapshot {
			if !yield(d.Clone()) {
				return
			}
		}
	}
}

// Names returns the primary names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.Len())
	for d := range r.List() {
		names = append(names, d.Name)
	}
	return names
}
