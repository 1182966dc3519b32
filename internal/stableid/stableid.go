// Package stableid implements StableIdLocator (SPEC_FULL.md §4.H): find
// which species, feature type and group a stable ID belongs to, trying
// an indexed lookup adaptor first and falling back to a linear scan of
// the registry.
package stableid

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/groupcatalog"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
)

func observeLookup(strategy string, start time.Time) {
	lookupDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
}

// TypedAdaptorName is the typed-adaptor key StableIdLocator looks for
// under (species="multi", group="stable_ids") before falling back to a
// linear scan.
const TypedAdaptorName = "StableIdsLookup"

// Row is one match the indexed lookup's single SQL statement can return.
type Row struct {
	Name       string
	ObjectType string
	DBType     string
}

// Lookup is implemented by a registered StableIdsLookup typed adaptor:
// the indexed fast path.
type Lookup interface {
	Lookup(ctx context.Context, stableID, name, dbType, objectType string) ([]Row, error)
}

// Result is what Locate returns on a hit.
type Result struct {
	Species string
	Type    string
	Group   string
}

// Options narrows a Locate call the way the original lookup form
// allowed: a known name/type restricts both strategies, KnownGroup
// restricts only the linear scan, KnownDBType restricts only the indexed
// lookup, and ForceLongLookup skips the indexed fast path entirely.
type Options struct {
	KnownName       string
	KnownGroup      string
	KnownType       string
	KnownDBType     string
	ForceLongLookup bool
}

// Locate implements the two-strategy state machine from spec.md §4.H.
func Locate(ctx context.Context, store *registry.Store, stableID string, opts Options) (*Result, error) {
	if !opts.ForceLongLookup {
		if res, ok, err := tryIndexed(ctx, store, stableID, opts); err != nil {
			return nil, err
		} else if ok {
			return res, nil
		}
	}
	return scan(ctx, store, stableID, opts)
}

func tryIndexed(ctx context.Context, store *registry.Store, stableID string, opts Options) (*Result, bool, error) {
	defer observeLookup("indexed", time.Now())

	raw, ok := store.GetTypedAdaptor("multi", groupcatalog.StableIds, TypedAdaptorName)
	if !ok {
		return nil, false, nil
	}
	lookup, ok := raw.(Lookup)
	if !ok {
		return nil, false, nil
	}

	rows, err := lookup.Lookup(ctx, stableID, opts.KnownName, opts.KnownDBType, opts.KnownType)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	first := rows[0]
	return &Result{Species: first.Name, Type: first.ObjectType, Group: first.DBType}, true, nil
}

func scan(ctx context.Context, store *registry.Store, stableID string, opts Options) (*Result, error) {
	defer observeLookup("linear_scan", time.Now())

	group := opts.KnownGroup
	if group == "" {
		group = groupcatalog.Core
	}

	candidates := store.GetAllDBAdaptors(registry.GetAllOptions{Group: group, Species: opts.KnownName})
	types := objectTypesFor(group, opts.KnownType)

	visitedConnections := map[adaptor.ConnLocator]bool{}
	for _, dba := range candidates {
		if dba.IsMultispecies {
			loc := dba.Locator()
			if visitedConnections[loc] {
				continue
			}
			visitedConnections[loc] = true
		}

		runner, ok := dba.Handle.(queryRower)
		if !ok {
			continue
		}

		for _, objectType := range types {
			query, ok := buildQuery(group, objectType, dba.DBName, dba.IsMultispecies)
			if !ok {
				continue
			}

			res, err := runOne(ctx, runner, query, stableID, dba)
			if err != nil {
				return nil, errors.Wrapf(err, "locating stable id %s in %s", stableID, dba.DBName)
			}
			if res != nil {
				res.Type = objectType
				res.Group = group
				return res, nil
			}
		}
	}
	return nil, nil
}

// queryRower is the minimal surface runOne needs; *sql.DB and *sql.Tx
// both satisfy it, and it is a one-method subset of adaptor.QueryRunner.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func runOne(ctx context.Context, runner queryRower, query, stableID string, dba *adaptor.DBAdaptor) (*Result, error) {
	ctxWithTimeout := ctx
	var cancel context.CancelFunc
	if dba.WaitTimeout > 0 {
		ctxWithTimeout, cancel = context.WithTimeout(ctx, time.Duration(dba.WaitTimeout)*time.Second)
		defer cancel()
	}

	row := runner.QueryRowContext(ctxWithTimeout, query, stableID)

	var raw sql.NullString
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	// A numeric (boolean) result -- the single-species existence check
	// -- is replaced by the DBAdaptor's own species property.
	if raw.String == "1" || raw.String == "0" {
		if raw.String == "0" {
			return nil, nil
		}
		return &Result{Species: dba.Species}, nil
	}
	return &Result{Species: raw.String}, nil
}

func objectTypesFor(group, knownType string) []string {
	if group == groupcatalog.Compara {
		if knownType != "" {
			return []string{knownType}
		}
		return comparaObjectTypes
	}
	if knownType != "" {
		return []string{knownType}
	}
	return objectTypes
}
