package reference

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	ref, err := Generate()
	require.NoError(t, err)

	// {unix-millis}-{16 hex chars}
	pattern := regexp.MustCompile(`^\d{13,}-[0-9a-f]{16}$`)
	assert.True(t, pattern.MatchString(ref), "unexpected reference format: %s", ref)
}

func TestGenerate_NoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 10000)

	for i := 0; i < 10000; i++ {
		ref, err := Generate()
		require.NoError(t, err)

		_, dup := seen[ref]
		require.False(t, dup, "collision after %d generations: %s", i, ref)
		seen[ref] = struct{}{}
	}
}
