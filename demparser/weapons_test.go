package demparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalWeaponNamePrefersEmbedded(t *testing.T) {
	ctx := newDecodeContext()
	assert.Equal(t, "mp40", canonicalWeaponName(ctx, 6, "mp40"))
	assert.Empty(t, ctx.diagnostics)
}

func TestCanonicalWeaponNameFallsBackToIndex(t *testing.T) {
	ctx := newDecodeContext()
	assert.Equal(t, "K98", canonicalWeaponName(ctx, 9, ""))
	require.Len(t, ctx.diagnostics, 1)
}

func TestCanonicalWeaponNameUnknownIndex(t *testing.T) {
	ctx := newDecodeContext()
	assert.Equal(t, "weapon_99", canonicalWeaponName(ctx, 99, ""))
	require.Len(t, ctx.diagnostics, 1)
}

func TestScopedAndUnscopedK98Distinct(t *testing.T) {
	ctx := newDecodeContext()
	unscoped := canonicalWeaponName(ctx, 9, "")
	scoped := canonicalWeaponName(ctx, 10, "")
	assert.NotEqual(t, unscoped, scoped)
}

func TestIsEnvironmentalDeath(t *testing.T) {
	assert.True(t, isEnvironmentalDeath(0))
	assert.True(t, isEnvironmentalDeath(254))
	assert.True(t, isEnvironmentalDeath(255))
	assert.False(t, isEnvironmentalDeath(6))
}
