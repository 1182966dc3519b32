package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyatz/ensembl-registry/internal/classify"
	"github.com/andrewyatz/ensembl-registry/internal/groupcatalog"
)

func TestClassifySingleCore(t *testing.T) {
	c, ok := classify.Classify("homo_sapiens_core_65_37", 65)
	require.True(t, ok)
	assert.Equal(t, groupcatalog.Core, c.Group)
	assert.False(t, c.Multispecies)
	assert.Equal(t, "homo_sapiens", c.EncodedName)
	assert.Equal(t, 65, c.Version)
}

func TestClassifyVariationSingle(t *testing.T) {
	c, ok := classify.Classify("homo_sapiens_variation_65_37", 65)
	require.True(t, ok)
	assert.Equal(t, groupcatalog.Variation, c.Group)
	assert.False(t, c.Multispecies)
	assert.Equal(t, "homo_sapiens", c.EncodedName)
}

func TestClassifyCollectionCore(t *testing.T) {
	c, ok := classify.Classify("escherichia_shigella_collection_core_10_65_1", 65)
	require.True(t, ok)
	assert.Equal(t, groupcatalog.Core, c.Group)
	assert.True(t, c.Multispecies)
	assert.Equal(t, "escherichia_shigella_collection", c.EncodedName)
	assert.Equal(t, 65, c.Version)
}

func TestClassifyWrongVersionRejected(t *testing.T) {
	_, ok := classify.Classify("homo_sapiens_core_65_37", 66)
	assert.False(t, ok)
}

func TestClassifyUserUploadNoVersion(t *testing.T) {
	c, ok := classify.Classify("jdoe_test_userdata", 65)
	require.True(t, ok)
	assert.Equal(t, groupcatalog.UserUpload, c.Group)
	assert.Equal(t, "jdoe_test", c.EncodedName)
}

func TestClassifyComparaWithSubname(t *testing.T) {
	c, ok := classify.Classify("ensembl_compara_pan_homology_67", 67)
	require.True(t, ok)
	assert.Equal(t, groupcatalog.Compara, c.Group)
	assert.Equal(t, "ensembl_compara_pan_homology", c.EncodedName)

	species, group := classify.PostProcess(c.Group, c.EncodedName)
	assert.Equal(t, "pan_homology", species)
	assert.Equal(t, groupcatalog.Compara, group)
}

func TestClassifyComparaWithoutSubname(t *testing.T) {
	c, ok := classify.Classify("ensembl_compara_65", 65)
	require.True(t, ok)
	species, group := classify.PostProcess(c.Group, c.EncodedName)
	assert.Equal(t, "multi", species)
	assert.Equal(t, groupcatalog.Compara, group)
}

func TestClassifyOntologyAndStableIds(t *testing.T) {
	for _, name := range []string{"ensembl_ontology_65", "ensembl_stable_ids_65"} {
		c, ok := classify.Classify(name, 65)
		require.True(t, ok, name)
		species, group := classify.PostProcess(c.Group, c.EncodedName)
		assert.Equal(t, "multi", species)
		assert.Equal(t, c.Group, group)
	}
}

func TestClassifyAncestral(t *testing.T) {
	c, ok := classify.Classify("ensembl_ancestral_65", 65)
	require.True(t, ok)
	assert.Equal(t, groupcatalog.Ancestral, c.Group)

	species, group := classify.PostProcess(c.Group, c.EncodedName)
	assert.Equal(t, "Ancestral sequences", species)
	assert.Equal(t, groupcatalog.Core, group)
}

func TestClassifyGroupOrderPrecedence(t *testing.T) {
	// core precedes cdna in group_order(); a pathological name matching
	// both binds to core.
	c, ok := classify.ClassifyGroup("homo_sapiens_core_65_37", 65, groupcatalog.Core)
	require.True(t, ok)
	assert.Equal(t, groupcatalog.Core, c.Group)

	order := groupcatalog.Order()
	require.Contains(t, order, groupcatalog.Core)
	require.Contains(t, order, groupcatalog.CDNA)
	coreIdx, cdnaIdx := -1, -1
	for i, g := range order {
		if g == groupcatalog.Core {
			coreIdx = i
		}
		if g == groupcatalog.CDNA {
			cdnaIdx = i
		}
	}
	assert.Less(t, coreIdx, cdnaIdx)
}

func TestClassifyNoMatch(t *testing.T) {
	_, ok := classify.Classify("not_a_database_name_at_all", 65)
	assert.False(t, ok)
}
