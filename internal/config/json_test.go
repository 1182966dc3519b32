package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyatz/ensembl-registry/internal/regerr"
)

func TestDecodeJSONBasicShape(t *testing.T) {
	raw := []byte(`{
  "adaptors": [
    {"species": "homo_sapiens", "group": "core", "host": "h", "port": 3306, "dbname": "homo_sapiens_core_65_37"}
  ],
  "aliases": {"homo_sapiens": ["human", "hsap"]}
}`)
	doc, err := DecodeJSON(raw)
	require.NoError(t, err)
	require.Len(t, doc.Adaptors, 1)
	assert.Equal(t, "homo_sapiens", doc.Adaptors[0].Species)
	assert.Equal(t, []string{"human", "hsap"}, doc.Aliases["homo_sapiens"])
}

func TestDecodeJSONToleratesCommentsAndTrailingCommas(t *testing.T) {
	raw := []byte(`{
  # a leading comment
  "adaptors": [
    {"species": "a", "group": "core", "host": "h"},
  ],
  "aliases": {},
}`)
	doc, err := DecodeJSON(raw)
	require.NoError(t, err)
	require.Len(t, doc.Adaptors, 1)
}

func TestDecodeJSONAdaptorsNonListIsTypeError(t *testing.T) {
	raw := []byte(`{"adaptors": {"not": "a list"}}`)
	_, err := DecodeJSON(raw)
	require.Error(t, err)
}

func TestDecodeJSONAliasesNonMapIsTypeError(t *testing.T) {
	raw := []byte(`{"aliases": ["not", "a", "map"]}`)
	_, err := DecodeJSON(raw)
	require.Error(t, err)
}

func TestDecodeJSONEmptyTolerated(t *testing.T) {
	doc, err := DecodeJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Adaptors)
}

func TestDecodeJSONEmptyObjectIsBadInput(t *testing.T) {
	_, err := DecodeJSON([]byte(`{}`))
	require.Error(t, err)
	var berr *regerr.BadInputError
	require.ErrorAs(t, err, &berr)
}
