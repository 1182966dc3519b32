package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config contains the user-visible configuration for one ensreg
// invocation. Adapted from the teacher's internal/source/server.Config:
// same Bind(*pflag.FlagSet)/Preflight() shape, generalized from "start a
// changefeed server" to "populate a registry and optionally answer one
// query".
type Config struct {
	// Server-load mode.
	Host          string
	Port          int
	User          string
	Pass          string
	WaitTimeout   int
	DBVersion     int
	SpeciesFilter string
	SpeciesSuffix string
	NoCache       bool

	// Config-load mode.
	ConfigFile string

	// URL-load mode: a mysql:// server URL or single-adaptor URL, per
	// spec.md §6 "URL form".
	URL string

	// Shared.
	Verbose bool

	// locate-id mode.
	LocateStableID  string
	KnownGroup      string
	KnownType       string
	ForceLongLookup bool
}

// Bind registers flags.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(&c.Host, "host", "", "MySQL server host to enumerate (server-load mode)")
	flags.IntVar(&c.Port, "port", 0, "MySQL server port (defaults to 3306, or 4306 for historical pre-48 ensembldb.ensembl.org releases)")
	flags.StringVar(&c.User, "user", "", "MySQL user (defaults to ensro)")
	flags.StringVar(&c.Pass, "pass", "", "MySQL password")
	flags.IntVar(&c.WaitTimeout, "waitTimeout", 0, "per-query read timeout in seconds")
	flags.IntVar(&c.DBVersion, "dbVersion", 0, "release version to enumerate for")
	flags.StringVar(&c.SpeciesFilter, "speciesFilter", "", "restrict enumeration to species whose production name has this prefix")
	flags.StringVar(&c.SpeciesSuffix, "speciesSuffix", "", "suffix appended to every loaded species and alias name")
	flags.BoolVar(&c.NoCache, "noCache", false, "disable adaptor-level caching")

	flags.StringVar(&c.ConfigFile, "configFile", "", "path to an INI or JSON registry configuration (config-load mode)")

	flags.StringVar(&c.URL, "url", "", "mysql:// server URL or single-adaptor URL (URL-load mode)")

	flags.BoolVar(&c.Verbose, "verbose", false, "enable debug logging and log the databases left unclassified after a server load")

	flags.StringVar(&c.LocateStableID, "locateId", "", "a stable id to locate (locate-id mode)")
	flags.StringVar(&c.KnownGroup, "knownGroup", "", "restrict stable-id lookup to this group")
	flags.StringVar(&c.KnownType, "knownType", "", "restrict stable-id lookup to this object type")
	flags.BoolVar(&c.ForceLongLookup, "forceLongLookup", false, "skip the indexed stable-id lookup and always linear-scan")
}

// Preflight validates the combination of flags the caller selected. A
// run always populates the registry from exactly one source (a server, a
// config file, or a fast-loader URL); --locateId then optionally queries
// it.
func (c *Config) Preflight() error {
	sources := 0
	for _, set := range []bool{c.Host != "", c.ConfigFile != "", c.URL != ""} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return errors.New("one of --host, --configFile or --url is required")
	}
	if sources > 1 {
		return errors.New("--host, --configFile and --url are mutually exclusive")
	}
	return nil
}
