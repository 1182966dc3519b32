// Package loadertest provides a sqlmock-backed fixture for exercising
// internal/loader without a live MySQL server, mirroring the shape of
// the teacher's internal/sinktest fixtures but built around
// DATA-DOG/go-sqlmock rather than a real target pool.
package loadertest

import (
	"database/sql"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

// Fixture bundles a *sql.DB backed by sqlmock with the Mock used to set
// expectations on it.
type Fixture struct {
	DB   *sql.DB
	Mock sqlmock.Sqlmock
}

// New opens a sqlmock connection in ordered-expectation mode, matching
// how the loader issues its queries sequentially on a single connection.
func New() (*Fixture, error) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		return nil, err
	}
	return &Fixture{DB: db, Mock: mock}, nil
}

// Close releases the underlying mock connection.
func (f *Fixture) Close() error {
	return f.DB.Close()
}

// ExpectShowDatabases sets up the two SHOW DATABASES LIKE enumeration
// queries the loader issues at the start of every Load, returning names
// for the version pattern and the userdata pattern respectively.
func (f *Fixture) ExpectShowDatabases(versionNames, userdataNames []string) {
	rows := sqlmock.NewRows([]string{"Database"})
	for _, n := range versionNames {
		rows.AddRow(n)
	}
	f.Mock.ExpectQuery(`SHOW DATABASES LIKE`).WillReturnRows(rows)

	rows2 := sqlmock.NewRows([]string{"Database"})
	for _, n := range userdataNames {
		rows2.AddRow(n)
	}
	f.Mock.ExpectQuery(`SHOW DATABASES LIKE`).WillReturnRows(rows2)
}

// ExpectMetaSpecies sets up the species_id/meta_value query a
// multi-species database's classification triggers.
func (f *Fixture) ExpectMetaSpecies(rows [][2]any) {
	r := sqlmock.NewRows([]string{"species_id", "meta_value"})
	for _, row := range rows {
		r.AddRow(row[0], row[1])
	}
	f.Mock.ExpectQuery(`SELECT species_id, meta_value FROM .*\.meta`).WillReturnRows(r)
}

// ExpectSingleAliasQuery sets up a single-species database's
// species.alias harvest query.
func (f *Fixture) ExpectSingleAliasQuery(aliases []string) {
	r := sqlmock.NewRows([]string{"meta_value"})
	for _, a := range aliases {
		r.AddRow(a)
	}
	f.Mock.ExpectQuery(`SELECT meta_value FROM .*\.meta WHERE meta_key = 'species\.alias'`).WillReturnRows(r)
}

// ExpectMultiAliasQuery sets up a multi-species database's joined
// production-name/alias harvest query.
func (f *Fixture) ExpectMultiAliasQuery(rows [][3]any) {
	r := sqlmock.NewRows([]string{"species_id", "meta_value", "meta_value"})
	for _, row := range rows {
		r.AddRow(row[0], row[1], row[2])
	}
	f.Mock.ExpectQuery(`SELECT m1\.species_id`).WillReturnRows(r)
}
