package registry

import (
	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/regerr"
)

// AddTypedAdaptor registers a specialized, type-specific adaptor
// instance under (species, group, type). At most one per key unless
// opts.Reset is set.
func (s *Store) AddTypedAdaptor(species, group, typ string, instance any, opts AddOptions) error {
	if species == "" || group == "" || typ == "" {
		return &regerr.BadInputError{What: "species, group and type are all required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalize(species)
	bygroup, ok := s.typedAdaptors[key]
	if !ok {
		bygroup = map[string]map[string]any{}
		s.typedAdaptors[key] = bygroup
	}
	bytype, ok := bygroup[group]
	if !ok {
		bytype = map[string]any{}
		bygroup[group] = bytype
	}
	if _, exists := bytype[typ]; exists && !opts.Reset {
		return &regerr.AlreadyExistsError{Species: species, Group: group}
	}
	bytype[typ] = instance

	types, ok := s.typesBySpecies[key]
	if !ok {
		types = map[string]bool{}
		s.typesBySpecies[key] = types
	}
	types[typ] = true

	if base, ok := s.adaptors[key][group]; ok {
		s.speciesByType[typ] = append(s.speciesByType[typ], base)
	}
	return nil
}

// GetTypedAdaptor returns the already-registered typed adaptor instance
// for (species, group, type), if any.
func (s *Store) GetTypedAdaptor(species, group, typ string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canonical, ok := s.resolveLocked(species)
	if !ok {
		return nil, false
	}
	key := normalize(canonical)
	bygroup, ok := s.typedAdaptors[key]
	if !ok {
		return nil, false
	}
	bytype, ok := bygroup[group]
	if !ok {
		return nil, false
	}
	instance, ok := bytype[typ]
	return instance, ok
}

// GetOrCreateTypedAdaptor returns the cached typed adaptor for (species,
// group, type), lazily instantiating it via the TypedFactory registered
// for (group, type) on first use. The base (species, group) DBAdaptor
// must already be registered.
func (s *Store) GetOrCreateTypedAdaptor(species, group, typ string) (any, error) {
	if instance, ok := s.GetTypedAdaptor(species, group, typ); ok {
		return instance, nil
	}

	base := s.GetDBAdaptor(species, group)
	if base == nil {
		return nil, &regerr.NotFoundError{Species: species}
	}
	factory, ok := adaptor.GetTypedFactory(group, typ)
	if !ok {
		return nil, &regerr.UnavailableModuleError{Group: group, ModuleID: group + "." + typ}
	}
	instance, err := factory(base, typ)
	if err != nil {
		return nil, err
	}
	if err := s.AddTypedAdaptor(species, group, typ, instance, AddOptions{}); err != nil {
		return nil, err
	}
	return instance, nil
}

// TypesForSpecies returns every type for which a typed adaptor has been
// registered under species, in no particular order.
func (s *Store) TypesForSpecies(species string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canonical, ok := s.resolveLocked(species)
	if !ok {
		return nil
	}
	types := s.typesBySpecies[normalize(canonical)]
	out := make([]string, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	return out
}

// SetDNAOverride redirects sequence-type requests for (species, group)
// to (dnaSpecies, dnaGroup).
func (s *Store) SetDNAOverride(species, group, dnaSpecies, dnaGroup string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalize(species)
	bygroup, ok := s.dnaOverrides[key]
	if !ok {
		bygroup = map[string]dnaTarget{}
		s.dnaOverrides[key] = bygroup
	}
	bygroup[group] = dnaTarget{Species: dnaSpecies, Group: dnaGroup}
}

// ResolveDNA returns the DBAdaptor that sequence-type requests for
// (species, group) should use: the override target if one is set and
// resolves to a registered adaptor (invariant 5), otherwise the
// (species, group) adaptor itself.
func (s *Store) ResolveDNA(species, group string) *adaptor.DBAdaptor {
	s.mu.RLock()
	canonical, ok := s.resolveLocked(species)
	if !ok {
		s.mu.RUnlock()
		return nil
	}
	key := normalize(canonical)
	override, hasOverride := s.dnaOverrides[key][group]
	s.mu.RUnlock()

	if hasOverride {
		if target := s.GetDBAdaptor(override.Species, override.Group); target != nil {
			return target
		}
	}
	return s.GetDBAdaptor(species, group)
}
