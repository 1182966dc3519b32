// Package classify implements the pure, side-effect-free database-name
// grammar from SPEC_FULL.md §4.C: given a database name and a target
// release version, decide whether it belongs to a group, whether it is
// multi-species, and what species or collection name it encodes.
//
// The per-group regexes are compiled once into a table indexed by
// groupcatalog.Order(), per SPEC_FULL.md's "multi-group regex engine"
// design note, so the grammar stays auditable in one place rather than
// being assembled ad hoc at call time.
package classify

import (
	"fmt"
	"regexp"

	"github.com/andrewyatz/ensembl-registry/internal/groupcatalog"
)

// Classification is what Classify/ClassifyGroup emit for a matching
// database name.
type Classification struct {
	Group        string
	Multispecies bool
	EncodedName  string
	Version      int
}

const (
	nameFrag       = `[a-z]+_[a-z0-9]+(?:_[a-z0-9]+)?`
	collectionFrag = `\w+_collection`
	// endFrag captures the release version V as its first (and only)
	// group: an optional leading "_<digits>" component, then the
	// mandatory "_<V>", then a mandatory trailing "_<digits>" (assembly
	// number) with an optional single trailing letter (patch suffix).
	endFrag = `(?:_[0-9]+)?_([0-9]+)_[0-9]+[a-zA-Z]?`
)

type pair struct {
	single     *regexp.Regexp
	collection *regexp.Regexp
}

// regularGroups are the groups classified by the generic
// NAME_GROUP_END / COLLECTION_GROUP_END grammar.
var regularGroups = map[string]string{
	groupcatalog.Core:          "core",
	groupcatalog.CDNA:          "cdna",
	groupcatalog.OtherFeatures: "otherfeatures",
	groupcatalog.RNASeq:        "rnaseq",
	groupcatalog.Vega:          "vega",
	groupcatalog.Variation:     "variation",
	groupcatalog.Funcgen:       "funcgen",
}

var table = buildTable()

func buildTable() map[string]pair {
	t := make(map[string]pair, len(groupcatalog.Order()))
	for group, literal := range regularGroups {
		t[group] = pair{
			single:     regexp.MustCompile(fmt.Sprintf(`^(%s)_%s%s$`, nameFrag, literal, endFrag)),
			collection: regexp.MustCompile(fmt.Sprintf(`^(%s)_%s%s$`, collectionFrag, literal, endFrag)),
		}
	}
	// userupload has no version component at all.
	t[groupcatalog.UserUpload] = pair{
		single:     regexp.MustCompile(fmt.Sprintf(`^(%s)_userdata$`, nameFrag)),
		collection: regexp.MustCompile(fmt.Sprintf(`^(%s)_userdata$`, collectionFrag)),
	}
	// compara: captured species is the whole "ensembl_compara[_<sub>]"
	// prefix; post-processing later decides multi vs <sub>.
	comparaRe := regexp.MustCompile(`^(ensembl_compara(?:_[a-z0-9]+)*)(?:_[0-9]+)?_([0-9]+)$`)
	t[groupcatalog.Compara] = pair{single: comparaRe, collection: comparaRe}

	t[groupcatalog.Ancestral] = pair{single: specialRe("ancestral"), collection: specialRe("ancestral")}
	t[groupcatalog.Ontology] = pair{single: specialRe("ontology"), collection: specialRe("ontology")}
	t[groupcatalog.StableIds] = pair{single: specialRe("stable_ids"), collection: specialRe("stable_ids")}
	return t
}

func specialRe(kind string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^ensembl[a-z]*_%s(?:_[0-9]+)?_([0-9]+)$`, kind))
}

// isSpecialNonCompara reports whether a group uses the 1-capture-group
// special regex (ancestral, ontology, stable_ids), whose only capture
// group is the version. compara is not included: its regex captures
// the leading prefix as group 1 and the version as group 2.
func isSpecialNonCompara(group string) bool {
	switch group {
	case groupcatalog.Ancestral, groupcatalog.Ontology, groupcatalog.StableIds:
		return true
	}
	return false
}

// ClassifyGroup restricts classification to a single group, the way
// DatabaseLoader's per-group walk uses it: it never needs to know
// whether some other group would also have matched.
func ClassifyGroup(dbname string, version int, group string) (Classification, bool) {
	p, ok := table[group]
	if !ok {
		return Classification{}, false
	}

	if m := p.collection.FindStringSubmatch(dbname); m != nil {
		if c, ok := classificationFromMatch(group, m, version, true); ok {
			return c, true
		}
	}
	if m := p.single.FindStringSubmatch(dbname); m != nil {
		if c, ok := classificationFromMatch(group, m, version, false); ok {
			return c, true
		}
	}
	return Classification{}, false
}

func classificationFromMatch(group string, m []string, wantVersion int, multi bool) (Classification, bool) {
	switch group {
	case groupcatalog.UserUpload:
		// No version component at all; m[1] is the encoded name.
		return Classification{Group: group, Multispecies: multi, EncodedName: m[1]}, true
	case groupcatalog.Compara:
		v, ok := parseVersion(m[2])
		if !ok || v != wantVersion {
			return Classification{}, false
		}
		return Classification{Group: group, Multispecies: false, EncodedName: m[1], Version: v}, true
	default:
		if isSpecialNonCompara(group) {
			v, ok := parseVersion(m[1])
			if !ok || v != wantVersion {
				return Classification{}, false
			}
			return Classification{Group: group, Multispecies: false, EncodedName: group, Version: v}, true
		}
		// Regular NAME/COLLECTION _ GROUP _ END grammar: m[1] is the
		// encoded name, m[2] is the captured version.
		v, ok := parseVersion(m[2])
		if !ok || v != wantVersion {
			return Classification{}, false
		}
		return Classification{Group: group, Multispecies: multi, EncodedName: m[1], Version: v}, true
	}
}

func parseVersion(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// Classify tries every group in groupcatalog.Order(), in order,
// returning the first match. A database name matching more than one
// group's grammar binds to whichever group comes first in the order.
func Classify(dbname string, version int) (Classification, bool) {
	for _, group := range groupcatalog.Order() {
		if c, ok := ClassifyGroup(dbname, version, group); ok {
			return c, true
		}
	}
	return Classification{}, false
}
