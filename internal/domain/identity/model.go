package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Dataset is the name of the patients file.
const Dataset = "patients"

// Columns of the patients dataset, in file order.
var Columns = []string{"id", "name", "document_id", "age", "sex"}

const (
	MinAge = 0
	MaxAge = 120
)

// ErrValidation marks input rejected before anything is written.
var ErrValidation = errors.New("invalid patient")

// Sex is the administrative sex recorded at intake.
type Sex string

const (
	SexMale   Sex = "Masculino"
	SexFemale Sex = "Femenino"
	SexOther  Sex = "Otro"
)

// Sexes lists the accepted values in form order.
func Sexes() []Sex { return []Sex{SexMale, SexFemale, SexOther} }

func (s Sex) Valid() bool {
	for _, v := range Sexes() {
		if s == v {
			return true
		}
	}
	return false
}

// Patient is one row of the patients dataset. Other datasets refer to a
// patient by Name.
type Patient struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	DocumentID string `json:"document_id"`
	Age        int    `json:"age"`
	Sex        Sex    `json:"sex"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (p *Patient) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.DocumentID = strings.TrimSpace(p.DocumentID)
}

// Validate applies the intake form constraints.
func (p *Patient) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d, got %d", ErrValidation, MinAge, MaxAge, p.Age)
	}
	if !p.Sex.Valid() {
		return fmt.Errorf("%w: sex must be one of %s, %s or %s, got %q", ErrValidation, SexMale, SexFemale, SexOther, p.Sex)
	}
	return nil
}
