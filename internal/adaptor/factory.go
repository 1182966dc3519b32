package adaptor

import "sync"

// Factory builds a DBAdaptor from its parameters. Concrete adaptor
// packages register one per ModuleID at program start; a group with no
// registered factory is skipped by loaders (UnavailableModuleError),
// never aborts a load.
type Factory func(Params) (*DBAdaptor, error)

// TypedFactory lazily builds a specialized, type-specific adaptor (gene,
// transcript, ...) bound to an already-registered DBAdaptor. Concrete
// adaptor packages register one per (group, type) pair.
type TypedFactory func(base *DBAdaptor, typ string) (any, error)

var (
	mu             sync.RWMutex
	factories      = map[ModuleID]Factory{}
	typedFactories = map[string]TypedFactory{}
)

// RegisterFactory registers the Factory used to instantiate adaptors for
// a module. Called by concrete adaptor packages at init time, never by
// the registry core itself.
func RegisterFactory(id ModuleID, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[id] = f
}

// GetFactory returns the Factory registered for a module, if any.
func GetFactory(id ModuleID) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[id]
	return f, ok
}

// RegisterTypedFactory registers the TypedFactory for a (group, type)
// pair.
func RegisterTypedFactory(group, typ string, f TypedFactory) {
	mu.Lock()
	defer mu.Unlock()
	typedFactories[typedKey(group, typ)] = f
}

// GetTypedFactory returns the TypedFactory registered for a (group,
// type) pair, if any.
func GetTypedFactory(group, typ string) (TypedFactory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := typedFactories[typedKey(group, typ)]
	return f, ok
}

func typedKey(group, typ string) string { return group + "\x00" + typ }

// ResetForTest clears every registered factory. Exported for use by
// tests elsewhere in this module that need a clean factory table between
// cases; production code never calls it.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	factories = map[ModuleID]Factory{}
	typedFactories = map[string]TypedFactory{}
}
