package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeINIMergesDefaultsAndSplitsAliases(t *testing.T) {
	raw := []byte(`
[default]
driver = mysql
user = ensro

[homo_sapiens_core]
species = homo_sapiens
group = core
host = ensembldb.example.org
port = 3306
dbname = homo_sapiens_core_65_37
alias = human
       hsap
`)
	doc, err := DecodeINI(raw)
	require.NoError(t, err)
	require.Len(t, doc.Adaptors, 1)

	spec := doc.Adaptors[0]
	assert.Equal(t, "homo_sapiens", spec.Species)
	assert.Equal(t, "core", spec.Group)
	assert.Equal(t, "ensro", spec.User) // inherited from [default]
	assert.Equal(t, 3306, spec.Port)
	assert.ElementsMatch(t, []string{"human", "hsap"}, doc.Aliases["homo_sapiens"])
}

func TestDecodeINISkipsSectionMissingSpeciesOrGroup(t *testing.T) {
	raw := []byte(`
[broken]
host = example.org
`)
	doc, err := DecodeINI(raw)
	require.NoError(t, err)
	assert.Empty(t, doc.Adaptors)
}

func TestDecodeINIEmptyFileTolerated(t *testing.T) {
	doc, err := DecodeINI(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Adaptors)
	assert.Empty(t, doc.Aliases)
}
