package clinical

import (
	"context"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

type noteRepoCSV struct {
	ds *tablestore.Dataset
}

// NewNoteRepoCSV returns a repository over the clinical history CSV file.
func NewNoteRepoCSV(store *tablestore.Store) NoteRepository {
	return &noteRepoCSV{ds: store.Dataset(Dataset, Columns...)}
}

func (r *noteRepoCSV) Append(_ context.Context, n *Note) error {
	return r.ds.Update(func(t *tablestore.Table) error {
		return t.Append(n.PatientName, n.Date, n.Reason, n.Diagnosis, n.History, n.Observations)
	})
}

// ListByPatient returns the notes of one patient, or all notes when
// patientName is empty.
func (r *noteRepoCSV) ListByPatient(_ context.Context, patientName string) ([]*Note, error) {
	t := r.ds.Load()
	out := make([]*Note, 0)
	for i := 0; i < t.Len(); i++ {
		if patientName != "" && t.Field(i, "patient_name") != patientName {
			continue
		}
		out = append(out, &Note{
			PatientName:  t.Field(i, "patient_name"),
			Date:         tablestore.FormatDate(tablestore.ParseDate(t.Field(i, "date"))),
			Reason:       t.Field(i, "reason"),
			Diagnosis:    t.Field(i, "diagnosis"),
			History:      t.Field(i, "history"),
			Observations: t.Field(i, "observations"),
		})
	}
	return out, nil
}
