// Package registry implements the in-memory index of adaptors and
// aliases described in SPEC_FULL.md §3/§4.A: RegistryStore.
//
// A Store is safe for concurrent use. Mutating operations take a write
// lock; read-heavy paths (GetDBAdaptor, GetAlias, ...) take a read lock,
// per SPEC_FULL.md §5.
package registry

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/regerr"
)

type dnaTarget struct {
	Species string
	Group   string
}

// Store is the normalized index of adaptors and aliases. Use New for a
// private instance, or Default for the process-wide singleton.
type Store struct {
	mu sync.RWMutex

	aliases  map[string]string                        // normalize(alias) -> canonical species (as given)
	adaptors map[string]map[string]*adaptor.DBAdaptor // normalize(species) -> group -> adaptor
	flat     []*adaptor.DBAdaptor                     // insertion order, exactly once each

	typedAdaptors  map[string]map[string]map[string]any // normalize(species) -> group -> type -> instance
	typesBySpecies map[string]map[string]bool           // normalize(species) -> set of types registered
	speciesByType  map[string][]*adaptor.DBAdaptor      // type -> adaptors that have that type registered

	dnaOverrides map[string]map[string]dnaTarget // normalize(species) -> group -> override target

	log *log.Entry
}

// New creates an empty, private registry instance.
func New() *Store {
	return &Store{
		aliases:        map[string]string{},
		adaptors:       map[string]map[string]*adaptor.DBAdaptor{},
		typedAdaptors:  map[string]map[string]map[string]any{},
		typesBySpecies: map[string]map[string]bool{},
		speciesByType:  map[string][]*adaptor.DBAdaptor{},
		dnaOverrides:   map[string]map[string]dnaTarget{},
		log:            log.WithField("component", "registry"),
	}
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the process-wide registry singleton, constructing it
// on first use.
func Default() *Store {
	defaultOnce.Do(func() { defaultStore = New() })
	return defaultStore
}

// normalize implements invariant 4: comparisons are case-insensitive,
// and spaces/dashes become underscores, for any name supplied by a
// caller (not for the canonical species string stored as a value, which
// keeps its original form, e.g. "Ancestral sequences").
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// AddOptions controls AddAdaptor/AddTypedAdaptor behavior.
type AddOptions struct {
	// Reset allows overwriting an already-registered (species, group)
	// slot instead of returning AlreadyExistsError.
	Reset bool
}

// AddAdaptor registers dba under (species, group). It creates the
// self-alias species->species if missing (invariant 1). A second
// insertion at the same (species, group) fails with AlreadyExistsError
// unless opts.Reset is set.
func (s *Store) AddAdaptor(species, group string, dba *adaptor.DBAdaptor, opts AddOptions) error {
	if species == "" {
		return &regerr.BadInputError{What: "species is required"}
	}
	if group == "" {
		return &regerr.BadInputError{What: "group is required"}
	}
	if dba == nil {
		return &regerr.BadInputError{What: "adaptor is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalize(species)
	if _, ok := s.aliases[key]; !ok {
		s.aliases[key] = species
	}

	bygroup, ok := s.adaptors[key]
	if !ok {
		bygroup = map[string]*adaptor.DBAdaptor{}
		s.adaptors[key] = bygroup
	}
	if existing, ok := bygroup[group]; ok && !opts.Reset {
		return &regerr.AlreadyExistsError{Species: species, Group: group}
	} else if ok {
		s.removeFromFlat(existing)
	}

	bygroup[group] = dba
	s.flat = append(s.flat, dba)
	return nil
}

func (s *Store) removeFromFlat(target *adaptor.DBAdaptor) {
	for i, d := range s.flat {
		if d == target {
			s.flat[i] = s.flat[len(s.flat)-1]
			s.flat = s.flat[:len(s.flat)-1]
			return
		}
	}
}

// GetDBAdaptor alias-resolves species and returns the adaptor registered
// for (species, group), or nil if none is registered.
func (s *Store) GetDBAdaptor(species, group string) *adaptor.DBAdaptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canonical, ok := s.resolveLocked(species)
	if !ok {
		return nil
	}
	bygroup, ok := s.adaptors[normalize(canonical)]
	if !ok {
		return nil
	}
	return bygroup[group]
}

// GetAllOptions filters GetAllDBAdaptors.
type GetAllOptions struct {
	Species string // optional
	Group   string // optional
}

// GetAllDBAdaptors returns every adaptor matching the given filters.
// Forwards Group and, if given, Species -- see SPEC_FULL.md §9 (Open
// Question: the correct intent of the buggy %get_adaptors_args call).
func (s *Store) GetAllDBAdaptors(opts GetAllOptions) []*adaptor.DBAdaptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var canonical string
	if opts.Species != "" {
		c, ok := s.resolveLocked(opts.Species)
		if !ok {
			return nil
		}
		canonical = normalize(c)
	}

	var out []*adaptor.DBAdaptor
	for _, d := range s.flat {
		if opts.Group != "" && d.Group != opts.Group {
			continue
		}
		if opts.Species != "" && normalize(d.Species) != canonical {
			continue
		}
		out = append(out, d)
	}
	return out
}

// GetAllDBAdaptorsByConnection returns every adaptor whose underlying
// connection (host, port, user, dbname) matches loc.
func (s *Store) GetAllDBAdaptorsByConnection(loc adaptor.ConnLocator) []*adaptor.DBAdaptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*adaptor.DBAdaptor
	for _, d := range s.flat {
		if d.Locator() == loc {
			out = append(out, d)
		}
	}
	return out
}

// AddAlias registers one or more aliases pointing at species. species
// need not already have a registered adaptor (invariant 2: aliases may
// exist without adaptors).
func (s *Store) AddAlias(species string, aliases ...string) error {
	if species == "" {
		return &regerr.BadInputError{What: "species is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range aliases {
		if a == "" {
			continue
		}
		s.aliases[normalize(a)] = species
	}
	return nil
}

// GetAlias returns the canonical species name resolves to, or false if
// name does not resolve. Every registered adaptor species is its own
// alias (AddAdaptor guarantees this), so this also answers
// "is name a canonical species".
func (s *Store) GetAlias(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveLocked(name)
}

func (s *Store) resolveLocked(name string) (string, bool) {
	key := normalize(name)
	if canonical, ok := s.aliases[key]; ok {
		return canonical, true
	}
	// Defensive fallback for a canonical species registered without a
	// self-alias (should not happen via AddAdaptor, but AddAlias alone
	// could in principle target a species that is never itself aliased).
	for _, canonical := range s.aliases {
		if normalize(canonical) == key {
			return name, true
		}
	}
	return "", false
}

// GetAllAliases returns every alias pointing at the same canonical
// species as name, excluding name itself.
func (s *Store) GetAllAliases(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canonical, ok := s.resolveLocked(name)
	if !ok {
		return nil
	}
	self := normalize(name)
	var out []string
	for alias, target := range s.aliases {
		if target != canonical {
			continue
		}
		if alias == self {
			continue
		}
		out = append(out, alias)
	}
	return out
}

// RemoveDBAdaptor unregisters the adaptor at (species, group), if any.
func (s *Store) RemoveDBAdaptor(species, group string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical, ok := s.resolveLocked(species)
	if !ok {
		return
	}
	key := normalize(canonical)
	bygroup, ok := s.adaptors[key]
	if !ok {
		return
	}
	if existing, ok := bygroup[group]; ok {
		delete(bygroup, group)
		s.removeFromFlat(existing)
	}
}

// RemoveAlias unregisters alias. It does not touch any adaptor that was
// registered under that species.
func (s *Store) RemoveAlias(alias string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.aliases, normalize(alias))
}

// Closer is implemented by adaptor.DBAdaptor.Handle values that hold a
// real connection and should be disconnected on Clear.
type Closer interface {
	Close() error
}

// Clear disconnects any idle connections (any flat adaptor whose Handle
// implements Closer) and empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.flat {
		if closer, ok := d.Handle.(Closer); ok {
			if err := closer.Close(); err != nil {
				s.log.WithError(err).Warn("could not close idle adaptor connection")
			}
		}
	}

	s.aliases = map[string]string{}
	s.adaptors = map[string]map[string]*adaptor.DBAdaptor{}
	s.flat = nil
	s.typedAdaptors = map[string]map[string]map[string]any{}
	s.typesBySpecies = map[string]map[string]bool{}
	s.speciesByType = map[string][]*adaptor.DBAdaptor{}
	s.dnaOverrides = map[string]map[string]dnaTarget{}
}

// MergeOptions controls Merge behavior.
type MergeOptions struct {
	Verbose bool
}

// Merge copies every adaptor and alias from other that is not already
// present in s. The first-seen value wins; duplicates are skipped, not
// errors, and are logged only when opts.Verbose is set.
func (s *Store) Merge(other *Store, opts MergeOptions) {
	other.mu.RLock()
	otherFlat := make([]*adaptor.DBAdaptor, len(other.flat))
	copy(otherFlat, other.flat)
	otherAliases := make(map[string]string, len(other.aliases))
	for k, v := range other.aliases {
		otherAliases[k] = v
	}
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range otherFlat {
		key := normalize(d.Species)
		if _, ok := s.aliases[key]; !ok {
			s.aliases[key] = d.Species
		}
		bygroup, ok := s.adaptors[key]
		if !ok {
			bygroup = map[string]*adaptor.DBAdaptor{}
			s.adaptors[key] = bygroup
		}
		if _, exists := bygroup[d.Group]; exists {
			if opts.Verbose {
				s.log.WithFields(log.Fields{"species": d.Species, "group": d.Group}).
					Info("merge: duplicate adaptor, keeping first-seen")
			}
			continue
		}
		bygroup[d.Group] = d
		s.flat = append(s.flat, d)
	}

	for alias, canonical := range otherAliases {
		if _, exists := s.aliases[alias]; exists {
			if opts.Verbose && s.aliases[alias] != canonical {
				s.log.WithFields(log.Fields{"alias": alias}).
					Info("merge: duplicate alias, keeping first-seen")
			}
			continue
		}
		s.aliases[alias] = canonical
	}
}
