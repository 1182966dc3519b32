package classify

import (
	"regexp"

	"github.com/andrewyatz/ensembl-registry/internal/groupcatalog"
)

// PostProcess applies the name/group post-processing from SPEC_FULL.md
// §4.C to one (group, encodedName) pair, where encodedName is either the
// database's encoded species/collection name (regular groups), the
// per-row production name (multi-species databases), or the raw
// classification encoded name (compara/ontology/stable_ids/ancestral).
//
// It returns the canonical species the name should be registered under,
// and the group it should be registered under (only "ancestral" is
// rewritten, to "core").
func PostProcess(group, encodedName string) (species, finalGroup string) {
	switch group {
	case groupcatalog.Compara:
		if sub, ok := comparaSubname(encodedName); ok {
			return sub, groupcatalog.Compara
		}
		return "multi", groupcatalog.Compara
	case groupcatalog.Ontology, groupcatalog.StableIds:
		return "multi", group
	case groupcatalog.Ancestral:
		return "Ancestral sequences", groupcatalog.Core
	default:
		return encodedName, group
	}
}

var comparaSubRe = regexp.MustCompile(`^ensembl_compara_(.+)$`)

// comparaSubname extracts <sub> from "ensembl_compara_<sub>" encoded
// names; "ensembl_compara" itself (no subname) reports false.
func comparaSubname(encodedName string) (string, bool) {
	m := comparaSubRe.FindStringSubmatch(encodedName)
	if m == nil {
		return "", false
	}
	return m[1], true
}
