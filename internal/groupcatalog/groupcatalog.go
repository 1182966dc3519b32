// Package groupcatalog holds the closed mapping from database-group name
// to adaptor module identifier, and the static tables that say which
// groups support aliases or species filtering.
//
// Everything here is a static table (SPEC_FULL.md §4.B); no third-party
// library in the retrieval pack offers anything better than plain
// consts and maps for a closed enumeration like this one.
package groupcatalog

import "github.com/andrewyatz/ensembl-registry/internal/adaptor"

// All valid group names, the closed set from spec.md §3. group_order()
// below is the subset DatabaseLoader and NameClassifier walk; the
// remainder (hive, pipeline, blast, haplotype, snp) are valid targets
// for ConfigLoader/StructLoader but are never derived by enumerating a
// server. ancestral is walked, but its databases are stored under core.
const (
	Core          = "core"
	CDNA          = "cdna"
	OtherFeatures = "otherfeatures"
	RNASeq        = "rnaseq"
	Vega          = "vega"
	Variation     = "variation"
	Funcgen       = "funcgen"
	Compara       = "compara"
	Ancestral     = "ancestral"
	Ontology      = "ontology"
	StableIds     = "stable_ids"
	UserUpload    = "userupload"
	Hive          = "hive"
	Pipeline      = "pipeline"
	Blast         = "blast"
	Haplotype     = "haplotype"
	SNP           = "snp"
)

var allGroups = map[string]bool{
	Core: true, CDNA: true, OtherFeatures: true, RNASeq: true, Vega: true,
	Variation: true, Funcgen: true, Compara: true, Ancestral: true,
	Ontology: true, StableIds: true, UserUpload: true, Hive: true,
	Pipeline: true, Blast: true, Haplotype: true, SNP: true,
}

// IsValidGroup reports whether g is a member of the closed group set.
func IsValidGroup(g string) bool { return allGroups[g] }

var moduleFor = map[string]adaptor.ModuleID{
	Core:          "dbsql.DBAdaptor",
	CDNA:          "dbsql.DBAdaptor",
	OtherFeatures: "dbsql.DBAdaptor",
	RNASeq:        "dbsql.DBAdaptor",
	Vega:          "dbsql.DBAdaptor",
	Variation:     "variation.DBAdaptor",
	Funcgen:       "funcgen.DBAdaptor",
	Compara:       "compara.DBAdaptor",
	Ancestral:     "dbsql.DBAdaptor",
	Ontology:      "ontology.DBAdaptor",
	StableIds:     "stableids.DBAdaptor",
	UserUpload:    "dbsql.DBAdaptor",
	Hive:          "hive.DBAdaptor",
	Pipeline:      "pipeline.DBAdaptor",
	Blast:         "blast.DBAdaptor",
	Haplotype:     "dbsql.DBAdaptor",
	SNP:           "dbsql.DBAdaptor",
}

// ModuleFor returns the adaptor module identifier bound to a group, or
// false if the group is unknown.
func ModuleFor(group string) (adaptor.ModuleID, bool) {
	id, ok := moduleFor[group]
	return id, ok
}

var aliasAvailable = map[string]bool{
	Core:    true,
	Compara: true,
}

// AliasAvailable reports whether a group's loader harvests species
// aliases from its meta table. Only core and compara do.
func AliasAvailable(group string) bool { return aliasAvailable[group] }

var filterable = map[string]bool{
	Core:          true,
	OtherFeatures: true,
	CDNA:          true,
	Vega:          true,
	RNASeq:        true,
	Variation:     true,
	Funcgen:       true,
	UserUpload:    true,
}

// Filterable reports whether a group honors DatabaseLoader's
// species-filter option.
func Filterable(group string) bool { return filterable[group] }

var order = []string{
	Core, OtherFeatures, CDNA, Vega, RNASeq, Variation, Funcgen,
	UserUpload, Compara, Ancestral, Ontology, StableIds,
}

// Order returns the fixed group-iteration order used by DatabaseLoader
// and NameClassifier. A database name matching more than one group's
// grammar binds to whichever group comes first in this order, and tests
// depend on that (spec.md §5).
func Order() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}
