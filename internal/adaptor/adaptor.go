// Package adaptor holds the value types that flow through the registry
// plus the factory registry that replaces dynamic module loading (see
// SPEC_FULL.md, design note 9: "Dynamic module loading").
//
// The concrete adaptor classes for each group (gene adaptors, variation
// adaptors, ...) are an external concern: this package only knows how to
// hold and compare the (species, group, connection) tuple that identifies
// one, and how to ask a registered Factory to build one.
package adaptor

import (
	"context"
	"database/sql"
)

// ModuleID names the adaptor implementation a group is bound to, the way
// GroupCatalog binds a group name like "core" to a module.
type ModuleID string

// ConnLocator identifies the physical connection backing a DBAdaptor.
// Two adaptors that share host, port, user and dbname are considered to
// share a connection for the purposes of
// RegistryStore.GetAllDBAdaptorsByConnection and the stable-id locator's
// multi-species dedup.
type ConnLocator struct {
	Host   string
	Port   int
	User   string
	DBName string
}

// Params describes everything needed to instantiate a DBAdaptor. Loaders
// populate it from database enumeration or from a decoded configuration
// document; a registered Factory turns it into a DBAdaptor.
type Params struct {
	Species                string
	SpeciesID              int
	Group                  string
	IsMultispecies         bool
	DBName                 string
	Host                   string
	Port                   int
	User                   string
	Pass                   string
	Driver                 string
	WaitTimeout            int
	DisconnectWhenInactive bool
	ReconnectWhenLost      bool
	NoCache                bool
}

// DBAdaptor is the opaque handle to a database binding described in
// SPEC_FULL.md §3. The registry owns it exclusively once registered; it
// never reaches back into the registry itself.
type DBAdaptor struct {
	Params

	// Handle is whatever the concrete Factory wants to stash here: a
	// *sql.DB, a connection pool, a mock for tests. The registry never
	// inspects it.
	Handle any
}

// New builds a DBAdaptor directly from Params, with no side effects.
// Concrete adaptor packages typically wrap this in their own Factory to
// also open a connection pool into Handle.
func New(p Params) *DBAdaptor {
	a := p
	return &DBAdaptor{Params: a}
}

// Locator returns the connection identity used for grouping and dedup.
func (a *DBAdaptor) Locator() ConnLocator {
	if a == nil {
		return ConnLocator{}
	}
	return ConnLocator{Host: a.Host, Port: a.Port, User: a.User, DBName: a.DBName}
}

// SameConnection reports whether two adaptors share host, port, user and
// dbname.
func (a *DBAdaptor) SameConnection(other ConnLocator) bool {
	return a.Locator() == other
}

// QueryRunner is the minimal SQL surface the registry's own code needs:
// enough to enumerate databases, read meta tables and run the stable-id
// lookup queries, without depending on a specific driver or dialect.
// *sql.DB satisfies it directly.
type QueryRunner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

var _ QueryRunner = (*sql.DB)(nil)
