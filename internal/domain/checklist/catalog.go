package checklist

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical WHO phase names.
const (
	PhaseEntry         = "Entrada (Antes de la anestesia)"
	PhaseSurgicalPause = "Pausa quirúrgica (Antes de la incisión)"
	PhaseExit          = "Salida (Antes de salir del quirófano)"
)

// Phase is one section of the checklist with its items in display order.
type Phase struct {
	Name  string   `yaml:"phase" json:"phase"`
	Items []string `yaml:"items" json:"items"`
}

// Catalog is the ordered set of phases a checklist submission may use.
// It is immutable once built.
type Catalog struct {
	phases []Phase
	index  map[string]map[string]struct{}
}

// DefaultCatalog returns the WHO Surgical Safety Checklist in Spanish.
func DefaultCatalog() *Catalog {
	c, err := newCatalog([]Phase{
		{Name: PhaseEntry, Items: []string{
			"Identidad confirmada",
			"Sitio quirúrgico confirmado",
			"Procedimiento confirmado",
			"Consentimiento informado",
			"Sitio quirúrgico demarcado (si procede)",
			"Control de seguridad de anestesia completado",
			"Pulsioxímetro colocado y funcionando",
			"Alergias conocidas verificadas",
			"Vía aérea difícil / riesgo de aspiración evaluado",
			"Riesgo de hemorragia mayor a 500 ml evaluado",
		}},
		{Name: PhaseSurgicalPause, Items: []string{
			"Equipo se presenta por nombre y función",
			"Identidad del paciente confirmada verbalmente",
			"Sitio quirúrgico confirmado verbalmente",
			"Procedimiento confirmado verbalmente",
			"Cirujano revisa pasos críticos y duración",
			"Anestesia revisa problemas específicos del paciente",
			"Enfermería confirma esterilidad del instrumental",
			"Profilaxis antibiótica administrada en últimos 60 minutos",
			"Imágenes diagnósticas esenciales disponibles",
		}},
		{Name: PhaseExit, Items: []string{
			"Nombre del procedimiento realizado",
			"Recuento de instrumental correcto",
			"Recuento de gasas correcto",
			"Recuento de agujas correcto",
			"Muestras correctamente etiquetadas",
			"Problemas con instrumental o equipos registrados",
			"Indicaciones de recuperación y tratamiento revisadas",
		}},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a catalog override from a YAML file shaped as a list of
// {phase, items} entries. An empty or malformed file is an error.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var phases []Phase
	if err := yaml.Unmarshal(raw, &phases); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c, err := newCatalog(phases)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func newCatalog(phases []Phase) (*Catalog, error) {
	if len(phases) == 0 {
		return nil, fmt.Errorf("no phases defined")
	}
	c := &Catalog{
		phases: make([]Phase, 0, len(phases)),
		index:  make(map[string]map[string]struct{}, len(phases)),
	}
	for _, p := range phases {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("phase with empty name")
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("duplicate phase %q", name)
		}
		if len(p.Items) == 0 {
			return nil, fmt.Errorf("phase %q has no items", name)
		}
		items := make(map[string]struct{}, len(p.Items))
		labels := make([]string, 0, len(p.Items))
		for _, it := range p.Items {
			it = strings.TrimSpace(it)
			if it == "" {
				return nil, fmt.Errorf("phase %q has an empty item", name)
			}
			if _, dup := items[it]; dup {
				return nil, fmt.Errorf("phase %q repeats item %q", name, it)
			}
			items[it] = struct{}{}
			labels = append(labels, it)
		}
		c.index[name] = items
		c.phases = append(c.phases, Phase{Name: name, Items: labels})
	}
	return c, nil
}

// Phases returns the phase names in canonical order.
func (c *Catalog) Phases() []string {
	out := make([]string, len(c.phases))
	for i, p := range c.phases {
		out[i] = p.Name
	}
	return out
}

// Items returns the item labels of phase in display order.
func (c *Catalog) Items(phase string) ([]string, bool) {
	for _, p := range c.phases {
		if p.Name == phase {
			return append([]string(nil), p.Items...), true
		}
	}
	return nil, false
}

func (c *Catalog) Contains(phase, item string) bool {
	items, ok := c.index[phase]
	if !ok {
		return false
	}
	_, ok = items[item]
	return ok
}

func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.phases)
}
