package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

func TestDefault_RoundTrip(t *testing.T) {
	m := Default()

	for _, local := range m.LocalNames() {
		remote, err := m.ToRemote(local)
		require.NoError(t, err)

		back, err := m.ToLocal(remote)
		require.NoError(t, err)
		assert.Equal(t, local, back)
	}
}

func TestMapper_Unmapped(t *testing.T) {
	m := Default()

	_, err := m.ToRemote("recipes")
	assert.ErrorIs(t, err, ErrUnmappedCollection)

	_, err = m.ToLocal("recipes")
	assert.ErrorIs(t, err, ErrUnmappedCollection)

	_, ok := m.Lookup("recipes")
	assert.False(t, ok)
}

func TestNewMapper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Definition
		wantErr error
	}{
		{
			name: "duplicate local",
			defs: []Definition{
				{Local: "a", Remote: "x", Kind: models.KindHabit},
				{Local: "a", Remote: "y", Kind: models.KindHabit},
			},
			wantErr: ErrDuplicateMapping,
		},
		{
			name: "duplicate remote",
			defs: []Definition{
				{Local: "a", Remote: "x", Kind: models.KindHabit},
				{Local: "b", Remote: "x", Kind: models.KindHabit},
			},
			wantErr: ErrDuplicateMapping,
		},
		{
			name:    "empty remote",
			defs:    []Definition{{Local: "a", Kind: models.KindHabit}},
			wantErr: ErrEmptyName,
		},
		{
			name:    "unknown kind",
			defs:    []Definition{{Local: "a", Remote: "a", Kind: "recipe"}},
			wantErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper(tt.defs...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Panics(t, func() {
		MustNewMapper(Definition{Local: "a", Kind: models.KindHabit})
	})
}

func TestMapper_Subset(t *testing.T) {
	m := Default()

	sub, err := m.Subset("goals", "journalEntries")
	require.NoError(t, err)
	// declaration order is preserved, not argument order
	assert.Equal(t, []string{"journalEntries", "goals"}, sub.LocalNames())

	same, err := m.Subset()
	require.NoError(t, err)
	assert.Same(t, m, same)

	_, err = m.Subset("goals", "recipes")
	assert.ErrorIs(t, err, ErrUnmappedCollection)
}

func TestMapper_Names(t *testing.T) {
	m := MustNewMapper(
		Definition{Local: "zeta", Remote: "z_remote", Kind: models.KindGoal},
		Definition{Local: "alpha", Remote: "a_remote", Kind: models.KindHabit},
	)

	assert.Equal(t, []string{"zeta", "alpha"}, m.LocalNames())
	assert.Equal(t, []string{"a_remote", "z_remote"}, m.RemoteNames())

	defs := m.Definitions()
	defs[0].Local = "mutated"
	assert.Equal(t, "zeta", m.Definitions()[0].Local)

	def, ok := m.LookupRemote("a_remote")
	require.True(t, ok)
	assert.Equal(t, models.KindHabit, def.Kind)
}
