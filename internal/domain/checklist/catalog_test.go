package checklist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Phases(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []string{PhaseEntry, PhaseSurgicalPause, PhaseExit}, c.Phases())

	for phase, want := range map[string]int{PhaseEntry: 10, PhaseSurgicalPause: 9, PhaseExit: 7} {
		items, ok := c.Items(phase)
		require.True(t, ok, phase)
		assert.Len(t, items, want, phase)
	}
}

func TestDefaultCatalog_Labels(t *testing.T) {
	c := DefaultCatalog()

	entry, _ := c.Items(PhaseEntry)
	assert.Equal(t, "Identidad confirmada", entry[0])
	assert.Equal(t, "Vía aérea difícil / riesgo de aspiración evaluado", entry[8])
	assert.Equal(t, "Riesgo de hemorragia mayor a 500 ml evaluado", entry[9])

	pause, _ := c.Items(PhaseSurgicalPause)
	assert.Equal(t, "Profilaxis antibiótica administrada en últimos 60 minutos", pause[7])

	exit, _ := c.Items(PhaseExit)
	assert.Equal(t, "Indicaciones de recuperación y tratamiento revisadas", exit[6])
}

func TestCatalog_Contains(t *testing.T) {
	c := DefaultCatalog()
	assert.True(t, c.Contains(PhaseExit, "Recuento de gasas correcto"))
	assert.False(t, c.Contains(PhaseEntry, "Recuento de gasas correcto"))
	assert.False(t, c.Contains("Fase inexistente", "Identidad confirmada"))

	_, ok := c.Items("Fase inexistente")
	assert.False(t, ok)
}

func TestCatalog_ItemsReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	items, _ := c.Items(PhaseEntry)
	items[0] = "mutated"

	again, _ := c.Items(PhaseEntry)
	assert.Equal(t, "Identidad confirmada", again[0])
}

func TestCatalog_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(DefaultCatalog())
	require.NoError(t, err)

	var phases []Phase
	require.NoError(t, json.Unmarshal(raw, &phases))
	require.Len(t, phases, 3)
	assert.Equal(t, PhaseSurgicalPause, phases[1].Name)
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, `
- phase: Sign in
  items:
    - Identity confirmed
    - Site marked
- phase: Sign out
  items:
    - Counts correct
`)
	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sign in", "Sign out"}, c.Phases())
	assert.True(t, c.Contains("Sign in", "Site marked"))
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":           "",
		"malformed":       "- phase: [unterminated",
		"no items":        "- phase: Sign in\n  items: []\n",
		"blank phase":     "- phase: ' '\n  items: [a]\n",
		"duplicate item":  "- phase: Sign in\n  items: [a, a]\n",
		"duplicate phase": "- phase: A\n  items: [x]\n- phase: A\n  items: [y]\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
