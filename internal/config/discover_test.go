package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverPathPrefersExplicit(t *testing.T) {
	assert.Equal(t, "/explicit/path.ini", DiscoverPath("/explicit/path.ini"))
}

func TestDiscoverPathFallsBackToEnvVar(t *testing.T) {
	t.Setenv(envVar, "/env/path.ini")
	assert.Equal(t, "/env/path.ini", DiscoverPath(""))
}
