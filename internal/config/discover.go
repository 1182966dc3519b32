package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/andrewyatz/ensembl-registry/internal/regerr"
	"github.com/andrewyatz/ensembl-registry/internal/structloader"
)

const envVar = "ENSEMBL_REGISTRY"

// DiscoverPath implements the configuration-file discovery order from
// spec.md §6: an explicit path argument wins; otherwise the
// ENSEMBL_REGISTRY environment variable; otherwise $HOME/.ensembl_init.
// Returns "" if nothing is configured and no default file exists.
func DiscoverPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".ensembl_init")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadFile discovers and decodes a single configuration file by
// extension, per spec.md §6: ".ini" uses DecodeINI, ".json" uses
// DecodeJSON. Any other extension is out of scope for the core (it
// would be a scripted configuration in the original implementation's own
// scripting path) and fails with BadInputError rather than being
// silently guessed at.
func LoadFile(explicit string) (*structloader.Document, error) {
	path := DiscoverPath(explicit)
	if path == "" {
		return &structloader.Document{Aliases: map[string][]string{}}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return DecodeINI(raw)
	case ".json":
		return DecodeJSON(raw)
	default:
		return nil, &regerr.BadInputError{What: "unsupported registry config extension: " + path}
	}
}
