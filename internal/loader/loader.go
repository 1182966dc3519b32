// Package loader implements DatabaseLoader (SPEC_FULL.md §4.D): deriving
// a full registry from one MySQL-compatible server by enumerating its
// databases and pattern-matching their names.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/classify"
	"github.com/andrewyatz/ensembl-registry/internal/groupcatalog"
	"github.com/andrewyatz/ensembl-registry/internal/regerr"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
)

// Load connects to one server, enumerates its databases and returns a
// freshly populated, private registry. The connection is open only for
// the duration of this call (SPEC_FULL.md §5: "a single connection per
// loader invocation").
func Load(ctx context.Context, opts Options) (*registry.Store, error) {
	opts = opts.withDefaults()
	if opts.Host == "" {
		return nil, &regerr.BadInputError{What: "host is required"}
	}

	db, cleanup, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return LoadInto(ctx, db, registry.New(), opts)
}

// LoadInto runs the enumeration algorithm against an already-open
// connection, populating store. Split out from Load so that tests can
// supply a sqlmock-backed *sql.DB and callers can reuse an existing
// store.
func LoadInto(ctx context.Context, db *sql.DB, store *registry.Store, opts Options) (*registry.Store, error) {
	opts = opts.withDefaults()
	start := time.Now()
	defer func() { loaderLoadDuration.Observe(time.Since(start).Seconds()) }()

	names, err := enumerateCandidates(ctx, db, opts.DBVersion)
	if err != nil {
		return nil, err
	}
	candidates := newCandidateSet(names)

	for _, group := range groupcatalog.Order() {
		if err := loadGroup(ctx, db, store, candidates, group, opts); err != nil {
			return nil, err
		}
	}

	if err := injectDefaultAliases(store, opts.SpeciesSuffix); err != nil {
		return nil, err
	}

	if opts.Verbose {
		log.WithField("remaining_unclassified", candidates.remaining()).Info("database load complete")
	}
	return store, nil
}

func enumerateCandidates(ctx context.Context, db *sql.DB, version int) ([]string, error) {
	var names []string
	for _, pattern := range []string{fmt.Sprintf(`%%\_%d%%`, version), "userdata%"} {
		rows, err := db.QueryContext(ctx, "SHOW DATABASES LIKE ?", pattern)
		if err != nil {
			return nil, errors.Wrap(err, "listing databases")
		}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return nil, errors.Wrap(err, "scanning database name")
			}
			names = append(names, name)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return names, nil
}

func loadGroup(ctx context.Context, db *sql.DB, store *registry.Store, candidates *candidateSet, group string, opts Options) error {
	moduleID, ok := groupcatalog.ModuleFor(group)
	if !ok {
		log.WithField("group", group).Warn("unknown group in group order, skipping")
		return nil
	}
	factory, ok := adaptor.GetFactory(moduleID)
	if !ok {
		loaderGroupsSkipped.WithLabelValues(group).Inc()
		log.WithFields(log.Fields{"group": group, "module": moduleID}).
			Warn("adaptor module unavailable, skipping group")
		return nil
	}

	var loadErr error
	candidates.each(func(name string) bool {
		if loadErr != nil {
			return false
		}
		c, ok := classify.ClassifyGroup(name, opts.DBVersion, group)
		if !ok {
			return false
		}

		if opts.SpeciesFilter != "" && groupcatalog.Filterable(group) {
			filter := normalizeFilter(opts.SpeciesFilter)
			if !hasPrefix(c.EncodedName, filter) {
				return false
			}
		}

		speciesRows, err := speciesForClassification(ctx, db, name, c)
		if err != nil {
			loadErr = err
			return false
		}

		for _, row := range speciesRows {
			finalSpecies, finalGroup := classify.PostProcess(group, row.name)
			finalSpecies += opts.SpeciesSuffix

			dba, err := factory(adaptor.Params{
				Species:        finalSpecies,
				SpeciesID:      row.id,
				Group:          finalGroup,
				IsMultispecies: c.Multispecies,
				DBName:         name,
				Host:           opts.Host,
				Port:           opts.Port,
				User:           opts.User,
				Pass:           opts.Pass,
				Driver:         "mysql",
				WaitTimeout:    opts.WaitTimeout,
				NoCache:        opts.NoCache,
			})
			if err != nil {
				loadErr = errors.Wrapf(err, "instantiating adaptor for %s/%s", finalSpecies, finalGroup)
				return false
			}
			if err := store.AddAdaptor(finalSpecies, finalGroup, dba, registry.AddOptions{}); err != nil {
				loadErr = err
				return false
			}
			loaderDatabasesClassified.WithLabelValues(finalGroup).Inc()
		}

		if groupcatalog.AliasAvailable(group) {
			if err := harvestAliases(ctx, db, name, c, opts.SpeciesSuffix, store); err != nil {
				loadErr = err
				return false
			}
		}

		return true
	})
	return loadErr
}

type speciesRow struct {
	id   int
	name string
}

func speciesForClassification(ctx context.Context, db *sql.DB, dbname string, c classify.Classification) ([]speciesRow, error) {
	if !c.Multispecies {
		return []speciesRow{{id: 1, name: c.EncodedName}}, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT species_id, meta_value FROM %s.meta WHERE meta_key = 'species.production_name'`, dbname))
	if err != nil {
		return nil, errors.Wrapf(err, "listing species in %s", dbname)
	}
	defer rows.Close()

	var out []speciesRow
	for rows.Next() {
		var r speciesRow
		if err := rows.Scan(&r.id, &r.name); err != nil {
			return nil, errors.Wrap(err, "scanning species row")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func normalizeFilter(filter string) string {
	out := make([]rune, 0, len(filter))
	for _, r := range filter {
		switch {
		case r == ' ' || r == '-':
			out = append(out, '_')
		case r >= 'A' && r <= 'Z':
			out = append(out, r-'A'+'a')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
