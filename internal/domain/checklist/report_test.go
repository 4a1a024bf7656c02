package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(patient, date, phase, item string, passed bool) *Entry {
	return &Entry{PatientName: patient, Date: date, Phase: phase, Item: item, Passed: passed}
}

func TestBuildReport_FirstOccurrenceOrder(t *testing.T) {
	entries := []*Entry{
		entry("Luis Gómez", "2025-03-01", PhaseEntry, "Identidad confirmada", true),
		entry("Ana Pérez", "2025-03-09", PhaseExit, "Recuento de gasas correcto", true),
		entry("Ana Pérez", "2025-03-09", PhaseEntry, "Identidad confirmada", false),
		entry("Ana Pérez", "2025-03-10", PhaseExit, "Recuento de agujas correcto", false),
	}

	r, err := BuildReport("Ana Pérez", entries)
	require.NoError(t, err)

	assert.Equal(t, "Ana Pérez", r.PatientName)
	assert.Equal(t, "2025-03-09", r.Date)
	require.Len(t, r.Sections, 2)
	assert.Equal(t, PhaseExit, r.Sections[0].Phase)
	assert.Equal(t, PhaseEntry, r.Sections[1].Phase)
	assert.Equal(t, []Row{
		{Item: "Recuento de gasas correcto", Passed: true},
		{Item: "Recuento de agujas correcto", Passed: false},
	}, r.Sections[0].Rows)
}

func TestBuildReport_DuplicatesRepeat(t *testing.T) {
	entries := []*Entry{
		entry("Ana Pérez", "2025-03-09", PhaseEntry, "Identidad confirmada", false),
		entry("Ana Pérez", "2025-03-10", PhaseEntry, "Identidad confirmada", true),
	}

	r, err := BuildReport("Ana Pérez", entries)
	require.NoError(t, err)
	require.Len(t, r.Sections, 1)
	assert.Len(t, r.Sections[0].Rows, 2)
}

func TestBuildReport_NothingToExport(t *testing.T) {
	entries := []*Entry{entry("Luis Gómez", "2025-03-01", PhaseEntry, "Identidad confirmada", true)}

	_, err := BuildReport("Ana Pérez", entries)
	assert.ErrorIs(t, err, ErrNothingToExport)

	_, err = BuildReport("Ana Pérez", nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, "✔", Glyph(true))
	assert.Equal(t, "✘", Glyph(false))
}
