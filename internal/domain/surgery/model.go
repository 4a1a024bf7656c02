package surgery

import (
	"errors"
	"strings"
)

// Dataset is the name of the surgeries file.
const Dataset = "surgeries"

// Columns of the surgeries dataset, in file order.
var Columns = []string{"id", "patient_name", "procedure", "date", "surgeon"}

// ErrValidation marks input rejected before anything is written.
var ErrValidation = errors.New("invalid surgery")

// Surgery is one row of the surgeries dataset. The patient is referenced by
// name; nothing ties the row to a patient id. Date is YYYY-MM-DD.
type Surgery struct {
	ID          int64  `json:"id"`
	PatientName string `json:"patient_name"`
	Procedure   string `json:"procedure"`
	Date        string `json:"date"`
	Surgeon     string `json:"surgeon"`
}

func (s *Surgery) Normalize() {
	s.PatientName = strings.TrimSpace(s.PatientName)
	s.Procedure = strings.TrimSpace(s.Procedure)
	s.Surgeon = strings.TrimSpace(s.Surgeon)
	s.Date = strings.TrimSpace(s.Date)
}
