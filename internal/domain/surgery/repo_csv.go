package surgery

import (
	"context"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

type surgeryRepoCSV struct {
	ds *tablestore.Dataset
}

// NewSurgeryRepoCSV returns a repository over the surgeries CSV file.
func NewSurgeryRepoCSV(store *tablestore.Store) SurgeryRepository {
	return &surgeryRepoCSV{ds: store.Dataset(Dataset, Columns...)}
}

func (r *surgeryRepoCSV) Create(_ context.Context, s *Surgery) error {
	return r.ds.Update(func(t *tablestore.Table) error {
		id, err := r.ds.NextID(t, "id")
		if err != nil {
			return err
		}
		if err := t.Append(tablestore.FormatInt(id), s.PatientName, s.Procedure, s.Date, s.Surgeon); err != nil {
			return err
		}
		s.ID = id
		return nil
	})
}

func (r *surgeryRepoCSV) List(_ context.Context) ([]*Surgery, error) {
	t := r.ds.Load()
	out := make([]*Surgery, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, &Surgery{
			ID:          tablestore.ParseInt(t.Field(i, "id")),
			PatientName: t.Field(i, "patient_name"),
			Procedure:   t.Field(i, "procedure"),
			Date:        tablestore.FormatDate(tablestore.ParseDate(t.Field(i, "date"))),
			Surgeon:     t.Field(i, "surgeon"),
		})
	}
	return out, nil
}
