package clinical

import (
	"errors"
	"strings"
)

// Dataset is the name of the clinical history file.
const Dataset = "clinical_history"

// Columns of the clinical history dataset, in file order.
var Columns = []string{"patient_name", "date", "reason", "diagnosis", "history", "observations"}

// ErrValidation marks input rejected before anything is written.
var ErrValidation = errors.New("invalid clinical note")

// Note is one clinical evolution entry. Notes are append-only and dated the
// day they are written.
type Note struct {
	PatientName  string `json:"patient_name"`
	Date         string `json:"date"`
	Reason       string `json:"reason"`
	Diagnosis    string `json:"diagnosis"`
	History      string `json:"history"`
	Observations string `json:"observations"`
}

func (n *Note) Normalize() {
	n.PatientName = strings.TrimSpace(n.PatientName)
	n.Reason = strings.TrimSpace(n.Reason)
	n.Diagnosis = strings.TrimSpace(n.Diagnosis)
}
