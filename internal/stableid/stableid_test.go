package stableid

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/groupcatalog"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
)

type stubLookup struct {
	rows []Row
	err  error
}

func (s stubLookup) Lookup(ctx context.Context, stableID, name, dbType, objectType string) ([]Row, error) {
	return s.rows, s.err
}

func TestLocateIndexedFastPath(t *testing.T) {
	store := registry.New()
	base := adaptor.New(adaptor.Params{Species: "multi", Group: groupcatalog.StableIds})
	require.NoError(t, store.AddAdaptor("multi", groupcatalog.StableIds, base, registry.AddOptions{}))
	require.NoError(t, store.AddTypedAdaptor("multi", groupcatalog.StableIds, TypedAdaptorName,
		stubLookup{rows: []Row{{Name: "homo_sapiens", ObjectType: "gene", DBType: "core"}}}, registry.AddOptions{}))

	res, err := Locate(context.Background(), store, "ENSG00000139618", Options{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "homo_sapiens", res.Species)
	assert.Equal(t, "gene", res.Type)
	assert.Equal(t, "core", res.Group)
}

func TestLocateFallsBackToScanWhenNoIndexedHit(t *testing.T) {
	store := registry.New()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	dba := adaptor.New(adaptor.Params{Species: "homo_sapiens", Group: "core", DBName: "homo_sapiens_core_65_37"})
	dba.Handle = db
	require.NoError(t, store.AddAdaptor("homo_sapiens", "core", dba, registry.AddOptions{}))

	mock.ExpectQuery(`SELECT 1 FROM homo_sapiens_core_65_37\.gene`).
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow("1"))

	res, err := Locate(context.Background(), store, "ENSG00000139618", Options{KnownGroup: "core", KnownType: "gene"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "homo_sapiens", res.Species)
	assert.Equal(t, "gene", res.Type)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLocateScanSkipsRepeatMultispeciesConnection(t *testing.T) {
	store := registry.New()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	loc := adaptor.ConnLocator{Host: "h", Port: 3306, User: "u", DBName: "collection_core_65_1"}
	first := adaptor.New(adaptor.Params{
		Species: "escherichia_coli", Group: "core", DBName: loc.DBName,
		Host: loc.Host, Port: loc.Port, User: loc.User, IsMultispecies: true,
	})
	first.Handle = db
	second := adaptor.New(adaptor.Params{
		Species: "shigella_flexneri", Group: "core", DBName: loc.DBName,
		Host: loc.Host, Port: loc.Port, User: loc.User, IsMultispecies: true,
	})
	second.Handle = db

	require.NoError(t, store.AddAdaptor("escherichia_coli", "core", first, registry.AddOptions{}))
	require.NoError(t, store.AddAdaptor("shigella_flexneri", "core", second, registry.AddOptions{}))

	mock.ExpectQuery(`SELECT m\.meta_value FROM collection_core_65_1\.gene`).
		WillReturnRows(sqlmock.NewRows([]string{"species"}).AddRow("escherichia_coli"))

	res, err := Locate(context.Background(), store, "EB0001", Options{KnownGroup: "core", KnownType: "gene"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "escherichia_coli", res.Species)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLocateReturnsNilOnNoMatch(t *testing.T) {
	store := registry.New()
	res, err := Locate(context.Background(), store, "NOPE", Options{KnownGroup: "core"})
	require.NoError(t, err)
	assert.Nil(t, res)
}
