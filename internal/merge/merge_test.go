package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyatz/ensembl-registry/internal/adaptor"
	"github.com/andrewyatz/ensembl-registry/internal/loader"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
)

func storeWith(t *testing.T, species, group, host string) *registry.Store {
	t.Helper()
	s := registry.New()
	dba := adaptor.New(adaptor.Params{Species: species, Group: group, Host: host})
	require.NoError(t, s.AddAdaptor(species, group, dba, registry.AddOptions{}))
	return s
}

func TestLoadMergesInDeclarationOrderFirstSeenWins(t *testing.T) {
	first := storeWith(t, "homo_sapiens", "core", "server-a")
	second := storeWith(t, "homo_sapiens", "core", "server-b")

	calls := 0
	m := Merger{
		Servers: []loader.Options{{Host: "a"}, {Host: "b"}},
		loadFn: func(ctx context.Context, opts loader.Options) (*registry.Store, error) {
			calls++
			if opts.Host == "a" {
				return first, nil
			}
			return second, nil
		},
	}

	store := registry.New()
	require.NoError(t, m.Load(context.Background(), store))
	assert.Equal(t, 2, calls)

	dba := store.GetDBAdaptor("homo_sapiens", "core")
	require.NotNil(t, dba)
	assert.Equal(t, "server-a", dba.Host)
}

func TestLoadConcurrentMergesDeterministicallyByDeclarationOrder(t *testing.T) {
	first := storeWith(t, "homo_sapiens", "core", "server-a")
	second := storeWith(t, "homo_sapiens", "core", "server-b")

	m := Merger{
		Servers: []loader.Options{{Host: "a"}, {Host: "b"}},
		loadFn: func(ctx context.Context, opts loader.Options) (*registry.Store, error) {
			if opts.Host == "a" {
				return first, nil
			}
			return second, nil
		},
	}

	store := registry.New()
	require.NoError(t, m.LoadConcurrent(context.Background(), store))

	dba := store.GetDBAdaptor("homo_sapiens", "core")
	require.NotNil(t, dba)
	assert.Equal(t, "server-a", dba.Host)
}
