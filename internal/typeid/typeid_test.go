package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDrawingIDValidates(t *testing.T) {
	id := NewDrawingID()
	require.True(t, strings.HasPrefix(id, PrefixDrawing+"_"))
	assert.NoError(t, Validate(id, PrefixDrawing))
	assert.Error(t, Validate(id, PrefixAsset))
	assert.Error(t, Validate("not-an-id", PrefixAsset))
}

func TestNewRunPrefixDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p := NewRunPrefix()
		require.True(t, strings.HasPrefix(p, PrefixRun))
		assert.Len(t, p, len(PrefixRun)+8)
		assert.NotContains(t, p, "-")
		assert.False(t, seen[p], "duplicate prefix %s", p)
		seen[p] = true
	}
}
