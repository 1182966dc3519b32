package stableid

import "fmt"

// objectTypes lists the feature types scanned for a non-compara group,
// in the order spec.md §4.H names them.
var objectTypes = []string{"gene", "transcript", "translation", "exon", "operon", "operontranscript"}

// comparaObjectTypes lists the feature types scanned for the compara
// group.
var comparaObjectTypes = []string{"genetree"}

// typeTables maps an object type to the table holding its stable_id
// column, and how that table reaches seq_region (directly, or through
// an intermediate table for translation, whose own table has no
// seq_region_id).
var typeTables = map[string]struct {
	table     string
	via       string // "" for a direct seq_region_id join, else the join table
	viaColumn string
}{
	"gene":             {table: "gene"},
	"transcript":       {table: "transcript"},
	"exon":             {table: "exon"},
	"operon":           {table: "operon"},
	"operontranscript": {table: "operon_transcript", via: "operon", viaColumn: "operon_id"},
	"translation":      {table: "translation", via: "transcript", viaColumn: "transcript_id"},
}

// multispeciesQuery builds the query used against a multi-species
// database: it must return the feature's own species.production_name so
// the caller can tell which of the packed species owns the stable_id.
// One %s substitution names the containing database; every table after
// the FROM clause is resolved within that same schema.
func multispeciesQuery(objectType, dbname string) (string, bool) {
	spec, ok := typeTables[objectType]
	if !ok {
		return "", false
	}

	from := fmt.Sprintf("%%s.%s t", spec.table)
	joinSeqRegion := "JOIN seq_region sr USING (seq_region_id)"
	if spec.via != "" {
		from = fmt.Sprintf("%%s.%s t JOIN %s j ON t.%s = j.%s", spec.table, spec.via, spec.viaColumn, spec.viaColumn)
		joinSeqRegion = "JOIN seq_region sr ON j.seq_region_id = sr.seq_region_id"
	}

	query := fmt.Sprintf(
		`SELECT m.meta_value FROM %s
		   %s
		   JOIN coord_system cs ON sr.coord_system_id = cs.coord_system_id
		   JOIN meta m ON cs.species_id = m.species_id
		  WHERE t.stable_id = ? AND m.meta_key='species.production_name'`,
		from, joinSeqRegion)
	return fmt.Sprintf(query, dbname), true
}

// singleSpeciesQuery builds the boolean existence check run against a
// single-species database: its species is already known from the
// DBAdaptor itself, so the SQL only needs to say "yes, this stable_id
// exists here".
func singleSpeciesQuery(objectType, dbname string) (string, bool) {
	spec, ok := typeTables[objectType]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(`SELECT 1 FROM %s.%s WHERE stable_id = ? LIMIT 1`, dbname, spec.table), true
}

// comparaQuery builds the compara-specific genetree lookup. Compara
// schemas key species through genome_db rather than a seq_region chain.
func comparaQuery(dbname string, multispecies bool) string {
	if multispecies {
		return fmt.Sprintf(
			`SELECT m.meta_value FROM %s.gene_tree_root gtr
			   JOIN genome_db gdb ON gtr.genome_db_id = gdb.genome_db_id
			   JOIN meta m ON gdb.genome_db_id = m.species_id
			  WHERE gtr.stable_id = ? AND m.meta_key='species.production_name'`, dbname)
	}
	return fmt.Sprintf(`SELECT 1 FROM %s.gene_tree_root WHERE stable_id = ? LIMIT 1`, dbname)
}

// buildQuery resolves the SQL template for one (group, objectType,
// multispecies) combination.
func buildQuery(group, objectType, dbname string, multispecies bool) (string, bool) {
	if group == "compara" {
		if objectType != "genetree" {
			return "", false
		}
		return comparaQuery(dbname, multispecies), true
	}
	if multispecies {
		return multispeciesQuery(objectType, dbname)
	}
	return singleSpeciesQuery(objectType, dbname)
}
