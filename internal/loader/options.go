package loader

import log "github.com/sirupsen/logrus"

// Options configures one DatabaseLoader run against a single server.
type Options struct {
	Host          string
	Port          int    // defaults to 3306
	User          string // defaults to "ensro"
	Pass          string
	WaitTimeout   int
	DBVersion     int // defaults to DefaultVersion() if zero
	SpeciesFilter string
	SpeciesSuffix string
	NoCache       bool
	Verbose       bool
}

// DefaultVersion is consulted when Options.DBVersion is zero. In the
// original system this was the running software's own release number
// (software_version()); this module has no such global, so callers that
// rely on the zero-value default must set this at program start.
var DefaultVersion = func() int { return 0 }

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = 3306
	}
	if o.User == "" {
		o.User = "ensro"
	}
	if o.DBVersion == 0 {
		o.DBVersion = DefaultVersion()
	}
	// Historical special case: the public Ensembl staging host serves
	// pre-48 releases off a nonstandard port.
	if o.Host == "ensembldb.ensembl.org" && o.DBVersion > 0 && o.DBVersion < 48 {
		o.Port = 4306
	}
	return o
}

// misspelledVersionKeys are the historically-misspelled option keys that
// must still be accepted (and corrected with a warning) when options
// arrive as a raw, untyped map -- e.g. from a scripted/legacy config
// path.
var misspelledVersionKeys = []string{"version", "verion", "verison", "dbversion"}

// NormalizeRawOptions extracts db_version from a raw option map, also
// accepting the historically misspelled key variants, logging a
// correction warning when one is used.
func NormalizeRawOptions(raw map[string]any) (dbVersion int, warnings []string) {
	if v, ok := raw["db_version"]; ok {
		return toInt(v), nil
	}
	for _, key := range misspelledVersionKeys {
		if v, ok := raw[key]; ok {
			n := toInt(v)
			msg := "option key '" + key + "' is a misspelling of 'db_version'; using it, but please fix the caller"
			log.Warn(msg)
			return n, []string{msg}
		}
	}
	return 0, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		out := 0
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0
			}
			out = out*10 + int(r-'0')
		}
		return out
	default:
		return 0
	}
}
