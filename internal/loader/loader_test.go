package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/loader/loadertest"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
)

func stubFactory(p adaptor.Params) (*adaptor.DBAdaptor, error) {
	return adaptor.New(p), nil
}

func withFactories(t *testing.T, ids ...adaptor.ModuleID) {
	t.Helper()
	adaptor.ResetForTest()
	for _, id := range ids {
		adaptor.RegisterFactory(id, stubFactory)
	}
	t.Cleanup(adaptor.ResetForTest)
}

// TestLoadSingleAndCollection reproduces spec.md §8 scenario 4: a plain
// single-species core database, a variation database, and a collection
// database holding two production names behind one physical MySQL
// database.
func TestLoadSingleAndCollection(t *testing.T) {
	withFactories(t, "dbsql.DBAdaptor", "variation.DBAdaptor")

	fx, err := loadertest.New()
	require.NoError(t, err)
	defer fx.Close()

	fx.ExpectShowDatabases(
		[]string{
			"homo_sapiens_core_65_37",
			"homo_sapiens_variation_65_37",
			"escherichia_shigella_collection_core_10_65_1",
		},
		nil,
	)
	fx.ExpectSingleAliasQuery(nil) // homo_sapiens_core
	fx.ExpectMetaSpecies([][2]any{
		{1, "escherichia_coli"},
		{2, "shigella_flexneri"},
	})
	fx.ExpectMultiAliasQuery(nil) // escherichia collection

	store, err := LoadInto(context.Background(), fx.DB, registry.New(), Options{
		Host: "ensembldb.example.org", DBVersion: 65,
	})
	require.NoError(t, err)

	core := store.GetDBAdaptor("homo_sapiens", "core")
	require.NotNil(t, core)
	assert.Equal(t, "homo_sapiens_core_65_37", core.DBName)

	variation := store.GetDBAdaptor("homo_sapiens", "variation")
	require.NotNil(t, variation)

	ecoli := store.GetDBAdaptor("escherichia_coli", "core")
	require.NotNil(t, ecoli)
	assert.True(t, ecoli.IsMultispecies)
	assert.Equal(t, "escherichia_shigella_collection_core_10_65_1", ecoli.DBName)

	shigella := store.GetDBAdaptor("shigella_flexneri", "core")
	require.NotNil(t, shigella)

	require.NoError(t, fx.Mock.ExpectationsWereMet())
}

func TestLoadUnavailableModuleSkipsGroupWithoutConsuming(t *testing.T) {
	withFactories(t) // nothing registered: every group is unavailable

	fx, err := loadertest.New()
	require.NoError(t, err)
	defer fx.Close()

	fx.ExpectShowDatabases([]string{"homo_sapiens_core_65_37"}, nil)

	store, err := LoadInto(context.Background(), fx.DB, registry.New(), Options{
		Host: "example.org", DBVersion: 65,
	})
	require.NoError(t, err)
	assert.Nil(t, store.GetDBAdaptor("homo_sapiens", "core"))
}

func TestLoadSpeciesFilterExcludesOthers(t *testing.T) {
	withFactories(t, "dbsql.DBAdaptor")

	fx, err := loadertest.New()
	require.NoError(t, err)
	defer fx.Close()

	fx.ExpectShowDatabases(
		[]string{"homo_sapiens_core_65_37", "mus_musculus_core_65_37"},
		nil,
	)
	fx.ExpectSingleAliasQuery(nil)

	store, err := LoadInto(context.Background(), fx.DB, registry.New(), Options{
		Host: "example.org", DBVersion: 65, SpeciesFilter: "homo_sapiens",
	})
	require.NoError(t, err)

	require.NotNil(t, store.GetDBAdaptor("homo_sapiens", "core"))
	assert.Nil(t, store.GetDBAdaptor("mus_musculus", "core"))
}

func TestNormalizeRawOptionsAcceptsMisspelledVersionKey(t *testing.T) {
	v, warnings := NormalizeRawOptions(map[string]any{"verison": "65"})
	assert.Equal(t, 65, v)
	assert.Len(t, warnings, 1)
}

func TestOptionsWithDefaultsAppliesHistoricalPort(t *testing.T) {
	opts := Options{Host: "ensembldb.ensembl.org", DBVersion: 47}.withDefaults()
	assert.Equal(t, 4306, opts.Port)

	opts2 := Options{Host: "ensembldb.ensembl.org", DBVersion: 65}.withDefaults()
	assert.Equal(t, 3306, opts2.Port)
}
