package checklist

// ReportTitle heads every exported checklist document.
const ReportTitle = "LISTA DE VERIFICACIÓN DE LA SEGURIDAD DE LA CIRUGÍA (OMS)"

// Report is a patient's checklist grouped by phase, ready to render.
type Report struct {
	PatientName string
	Date        string
	Sections    []Section
}

type Section struct {
	Phase string
	Rows  []Row
}

type Row struct {
	Item   string
	Passed bool
}

// BuildReport groups the patient's entries by phase. Sections appear in the
// order each phase first occurs in entries, and rows keep their stored order
// including repeats from resubmissions. Date is that of the first entry.
func BuildReport(patientName string, entries []*Entry) (*Report, error) {
	r := &Report{PatientName: patientName}
	pos := make(map[string]int)
	for _, e := range entries {
		if e.PatientName != patientName {
			continue
		}
		if len(pos) == 0 {
			r.Date = e.Date
		}
		i, ok := pos[e.Phase]
		if !ok {
			i = len(r.Sections)
			pos[e.Phase] = i
			r.Sections = append(r.Sections, Section{Phase: e.Phase})
		}
		r.Sections[i].Rows = append(r.Sections[i].Rows, Row{Item: e.Item, Passed: e.Passed})
	}
	if len(r.Sections) == 0 {
		return nil, ErrNothingToExport
	}
	return r, nil
}

// Glyph returns the mark printed for a row.
func Glyph(passed bool) string {
	if passed {
		return "✔"
	}
	return "✘"
}
