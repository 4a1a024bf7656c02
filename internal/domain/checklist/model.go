package checklist

import "errors"

// Dataset is the name of the checklist file.
const Dataset = "checklist"

// Columns of the checklist dataset, in file order.
var Columns = []string{"patient_name", "date", "phase", "item", "passed"}

var (
	ErrValidation      = errors.New("invalid checklist submission")
	ErrUnknownPhase    = errors.New("unknown checklist phase")
	ErrUnknownItem     = errors.New("unknown checklist item")
	ErrNothingToExport = errors.New("no checklist recorded for this patient")
)

// Entry is one answered checklist item. A submission writes one entry per
// catalog item of the phase; resubmitting appends a second full set.
type Entry struct {
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Phase       string `json:"phase"`
	Item        string `json:"item"`
	Passed      bool   `json:"passed"`
}

// Submission is the checklist form for one patient and phase. Items absent
// from the map are recorded as not passed.
type Submission struct {
	PatientName string          `json:"patient_name"`
	Phase       string          `json:"phase"`
	Items       map[string]bool `json:"items"`
}
