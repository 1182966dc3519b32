package structloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
)

func withDBSQLFactory(t *testing.T) {
	t.Helper()
	adaptor.ResetForTest()
	adaptor.RegisterFactory("dbsql.DBAdaptor", func(p adaptor.Params) (*adaptor.DBAdaptor, error) {
		return adaptor.New(p), nil
	})
	t.Cleanup(adaptor.ResetForTest)
}

func TestLoadRegistersAdaptorsAndAliases(t *testing.T) {
	withDBSQLFactory(t)
	store := registry.New()

	doc := Document{
		Adaptors: []AdaptorSpec{
			{Species: "homo_sapiens", Group: "core", Host: "h", DBName: "homo_sapiens_core_65_37"},
		},
		Aliases: map[string][]string{
			"homo_sapiens": {"human"},
		},
	}

	require.NoError(t, Load(store, doc, Options{}))
	assert.NotNil(t, store.GetDBAdaptor("homo_sapiens", "core"))
	assert.NotNil(t, store.GetDBAdaptor("human", "core"))
}

func TestLoadMissingGroupIsSkippedNotFatal(t *testing.T) {
	withDBSQLFactory(t)
	store := registry.New()

	doc := Document{Adaptors: []AdaptorSpec{{Species: "homo_sapiens"}}}
	require.NoError(t, Load(store, doc, Options{}))
	assert.Empty(t, store.GetAllDBAdaptors(registry.GetAllOptions{}))
}

func TestLoadUnknownGroupBlacklistsRemainingSpecs(t *testing.T) {
	withDBSQLFactory(t)
	store := registry.New()

	doc := Document{
		Adaptors: []AdaptorSpec{
			{Species: "a", Group: "not_a_real_group", Host: "h1"},
			{Species: "b", Group: "not_a_real_group", Host: "h2"},
		},
	}
	require.NoError(t, Load(store, doc, Options{}))
	assert.Empty(t, store.GetAllDBAdaptors(registry.GetAllOptions{}))
}

func TestLoadNoCacheOptionOverridesPerSpec(t *testing.T) {
	adaptor.ResetForTest()
	var captured adaptor.Params
	adaptor.RegisterFactory("dbsql.DBAdaptor", func(p adaptor.Params) (*adaptor.DBAdaptor, error) {
		captured = p
		return adaptor.New(p), nil
	})
	t.Cleanup(adaptor.ResetForTest)

	store := registry.New()
	doc := Document{Adaptors: []AdaptorSpec{{Species: "a", Group: "core", NoCache: false}}}
	require.NoError(t, Load(store, doc, Options{NoCache: true}))
	assert.True(t, captured.NoCache)
}

func TestSerialiseRoundTripsAdaptorsAndAliases(t *testing.T) {
	withDBSQLFactory(t)
	store := registry.New()
	doc := Document{
		Adaptors: []AdaptorSpec{
			{Species: "homo_sapiens", Group: "core", Host: "h", Port: 3306, DBName: "homo_sapiens_core_65_37"},
		},
		Aliases: map[string][]string{"homo_sapiens": {"human", "hsap"}},
	}
	require.NoError(t, Load(store, doc, Options{}))

	out, err := Serialise(store)
	require.NoError(t, err)
	require.Len(t, out.Adaptors, 1)
	assert.Equal(t, "homo_sapiens", out.Adaptors[0].Species)
	assert.Equal(t, []string{"hsap", "human"}, out.Aliases["homo_sapiens"])
}
