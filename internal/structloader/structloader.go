// Package structloader implements StructLoader (SPEC_FULL.md §4.F): the
// normalized-document half of the config path used by ConfigLoader's
// decoded documents; the URL fast loader reuses its AdaptorSpec and
// Options types but registers its single adaptor itself.
package structloader

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/groupcatalog"
	"github.com/andrewyatz/ensembl-registry/internal/regerr"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
)

// AdaptorSpec is one entry of Document.Adaptors: every key an adaptor
// registration can carry, passed straight through to the registered
// Factory.
type AdaptorSpec struct {
	Species                string
	Group                  string
	Host                   string
	Port                   int
	User                   string
	Pass                   string
	DBName                 string
	Driver                 string
	SpeciesID              int
	MultispeciesDB         bool
	DisconnectWhenInactive bool
	WaitTimeout            int
	ReconnectWhenLost      bool
	NoCache                bool
}

// Document is the normalized shape both ConfigLoader formats (INI, JSON)
// decode into, per spec.md §4.F.
type Document struct {
	Adaptors []AdaptorSpec
	Aliases  map[string][]string
}

// Options configures one Load call.
type Options struct {
	// NoCache forces no_cache=true onto every adaptor spec regardless of
	// what the document itself says, per spec.md §4.F step 4.
	NoCache bool
}

// Load registers every adaptor and alias in doc into store. A spec
// missing its group is warned and skipped; a group with no registered
// module is warned, blacklisted for the remainder of this call, and its
// remaining specs are skipped without individually re-warning.
func Load(store *registry.Store, doc Document, opts Options) error {
	blacklist := make(map[string]bool)

	for _, spec := range doc.Adaptors {
		if spec.Group == "" {
			log.WithField("species", spec.Species).Warn("adaptor spec missing group, skipping")
			continue
		}
		if blacklist[spec.Group] {
			continue
		}

		moduleID, ok := groupcatalog.ModuleFor(spec.Group)
		if !ok {
			log.WithField("group", spec.Group).Warn("unknown group, blacklisting for this load")
			blacklist[spec.Group] = true
			continue
		}
		factory, ok := adaptor.GetFactory(moduleID)
		if !ok {
			log.WithFields(log.Fields{"group": spec.Group, "module": moduleID}).
				Warn("adaptor module unavailable, blacklisting group for this load")
			blacklist[spec.Group] = true
			continue
		}

		noCache := spec.NoCache || opts.NoCache
		dba, err := factory(adaptor.Params{
			Species:                spec.Species,
			SpeciesID:              spec.SpeciesID,
			Group:                  spec.Group,
			IsMultispecies:         spec.MultispeciesDB,
			DBName:                 spec.DBName,
			Host:                   spec.Host,
			Port:                   spec.Port,
			User:                   spec.User,
			Pass:                   spec.Pass,
			Driver:                 spec.Driver,
			WaitTimeout:            spec.WaitTimeout,
			DisconnectWhenInactive: spec.DisconnectWhenInactive,
			ReconnectWhenLost:      spec.ReconnectWhenLost,
			NoCache:                noCache,
		})
		if err != nil {
			return err
		}
		if err := store.AddAdaptor(spec.Species, spec.Group, dba, registry.AddOptions{}); err != nil {
			return err
		}
	}

	for species, aliases := range doc.Aliases {
		if err := store.AddAlias(species, aliases...); err != nil {
			return err
		}
	}
	return nil
}

// Serialise walks store and emits the normalized document form described
// in spec.md §4.F, sorted so that JSON/INI round-trips are stable.
func Serialise(store *registry.Store) (*Document, error) {
	doc := &Document{Aliases: make(map[string][]string)}

	for _, dba := range store.GetAllDBAdaptors(registry.GetAllOptions{}) {
		doc.Adaptors = append(doc.Adaptors, AdaptorSpec{
			Species:                dba.Species,
			Group:                  dba.Group,
			Host:                   dba.Host,
			Port:                   dba.Port,
			User:                   dba.User,
			Pass:                   dba.Pass,
			DBName:                 dba.DBName,
			Driver:                 dba.Driver,
			SpeciesID:              dba.SpeciesID,
			MultispeciesDB:         dba.IsMultispecies,
			DisconnectWhenInactive: dba.DisconnectWhenInactive,
			WaitTimeout:            dba.WaitTimeout,
			ReconnectWhenLost:      dba.ReconnectWhenLost,
		})
	}
	sort.Slice(doc.Adaptors, func(i, j int) bool {
		if doc.Adaptors[i].Species != doc.Adaptors[j].Species {
			return doc.Adaptors[i].Species < doc.Adaptors[j].Species
		}
		return doc.Adaptors[i].Group < doc.Adaptors[j].Group
	})

	seen := make(map[string]bool)
	for _, dba := range store.GetAllDBAdaptors(registry.GetAllOptions{}) {
		if seen[dba.Species] {
			continue
		}
		seen[dba.Species] = true
		aliases := store.GetAllAliases(dba.Species)
		if len(aliases) == 0 {
			continue
		}
		sort.Strings(aliases)
		doc.Aliases[dba.Species] = aliases
	}
	return doc, nil
}

// ValidateDocumentShape is invoked by the JSON decoder (internal/config)
// once raw, untyped JSON content has been parsed, to enforce the
// §4.F structural contract ("adaptors non-list, or aliases non-map:
// fail with TypeError") before values are coerced into a Document.
func ValidateDocumentShape(adaptorsRaw, aliasesRaw any) error {
	if adaptorsRaw != nil {
		if _, ok := adaptorsRaw.([]any); !ok {
			return &regerr.TypeError{What: "adaptors must be a list"}
		}
	}
	if aliasesRaw != nil {
		if _, ok := aliasesRaw.(map[string]any); !ok {
			return &regerr.TypeError{What: "aliases must be a map"}
		}
	}
	return nil
}
