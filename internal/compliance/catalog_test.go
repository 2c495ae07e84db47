package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := map[EntryID]bool{}
	for _, e := range AllEntries() {
		assert.False(t, seen[e.ID], "duplicate catalog id %s", e.ID)
		seen[e.ID] = true
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Category)
		assert.NotEmpty(t, e.WhyNeeded)
		assert.NotEmpty(t, e.DocumentsNeeded)
	}
	assert.Len(t, seen, 19)
}

func TestAllEntriesReturnsCopy(t *testing.T) {
	entries := AllEntries()
	entries[0].Title = "changed"
	entries[0].DocumentsNeeded[0] = "changed"

	fresh := AllEntries()
	assert.Equal(t, "PAN Card", fresh[0].Title)
	assert.Equal(t, "Identity Proof", fresh[0].DocumentsNeeded[0])
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(EntryFSSAI)
	require.True(t, ok)
	assert.Equal(t, "FSSAI License", e.Title)
	assert.True(t, e.HasPortal())

	bank, ok := Lookup(EntryCurrentAccount)
	require.True(t, ok)
	assert.False(t, bank.HasPortal())

	_, ok = Lookup("missing")
	assert.False(t, ok)
}
